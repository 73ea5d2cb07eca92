package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskchecker-api/internal/model"
	"github.com/BuzzLyutic/taskchecker-api/internal/repo"
	"github.com/BuzzLyutic/taskchecker-api/internal/service"
	"github.com/BuzzLyutic/taskchecker-api/internal/session"
	"github.com/BuzzLyutic/taskchecker-api/pkg/respond"
)

// SessionHeader - идентификатор сессии приходит от транспортного слоя
const SessionHeader = "Mcp-Session-Id"

type TaskHandler struct {
	service  *service.TaskService
	registry *session.Registry
	logger   *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, registry *session.Registry, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service:  srv,
		registry: registry,
		logger:   logger,
	}
}

func (h *TaskHandler) CreateTaskList(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	var req model.CreateTaskListRequest
	if r.ContentLength != 0 { // Пустое тело допустимо - создаем пустой список
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error("failed to decode json", zap.Error(err))
			respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
			return
		}
	}

	list, err := h.service.CreateTaskList(r.Context(), sessionID, req.InitialTasks)
	if err != nil {
		h.handleErrors(w, r, err, "Task list not found")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasklists/%s", list.ID))
	respond.JSON(w, r, http.StatusCreated, list)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.resolveSession(w, r); !ok {
		return
	}

	listID := chi.URLParam(r, "listID")
	taskID := chi.URLParam(r, "taskID")

	var req model.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	task, err := h.service.UpdateTask(r.Context(), listID, taskID, req.Updates)
	if err != nil {
		h.handleErrors(w, r, err, "Task or task list not found")
		return
	}

	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.resolveSession(w, r); !ok {
		return
	}

	listID := chi.URLParam(r, "listID")

	tasks, err := h.service.GetAllTasks(r.Context(), listID)
	if err != nil {
		h.handleErrors(w, r, err, "Task list not found")
		return
	}

	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.resolveSession(w, r); !ok {
		return
	}

	listID := chi.URLParam(r, "listID")
	taskID := chi.URLParam(r, "taskID")

	task, err := h.service.GetTask(r.Context(), listID, taskID)
	if err != nil {
		h.handleErrors(w, r, err, "Task not found")
		return
	}

	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.handleErrors(w, r, err, "not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, stats)
}

// resolveSession достает идентификатор сессии из заголовка и отмечает активность.
// Отсутствие заголовка - проблема транспорта, а не "не найдено"
func (h *TaskHandler) resolveSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		respond.Error(w, r, http.StatusBadRequest, "Session ID not available from transport context")
		return "", false
	}

	if err := h.registry.Touch(sessionID); err != nil {
		if errors.Is(err, session.ErrorTooManySessions) {
			respond.Error(w, r, http.StatusTooManyRequests, "Too many concurrent sessions")
		} else {
			h.logger.Error("session touch failed", zap.Error(err))
			respond.Error(w, r, http.StatusInternalServerError, "internal error")
		}
		return "", false
	}

	return sessionID, true
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, repo.ErrorLimit):
		respond.Error(w, r, http.StatusBadRequest, "Task list limit reached for this session")
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
