package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskchecker-api/internal/config"
	"github.com/BuzzLyutic/taskchecker-api/internal/handler"
	"github.com/BuzzLyutic/taskchecker-api/internal/repo"
	"github.com/BuzzLyutic/taskchecker-api/internal/service"
	"github.com/BuzzLyutic/taskchecker-api/internal/session"
)

// TestConfig - конфигурация с короткими окнами, чтобы тесты не ждали минутами
func TestConfig() config.Config {
	return config.Config{
		Port:                  "0",
		SessionTimeout:        200 * time.Millisecond,
		SweepInterval:         time.Hour,
		MaxTaskListAge:        24 * time.Hour,
		MaxTasksPerList:       100,
		MaxListsPerSession:    5,
		MaxConcurrentSessions: 1000,
		TitleMaxLength:        255,
		CriteriaMaxLength:     1000,
	}
}

// SetupTestServer собирает весь сервис поверх собственного хранилища.
// Каждый вызов - полностью изолированный инстанс
func SetupTestServer(t *testing.T, cfg config.Config) (*httptest.Server, *session.Registry, func()) {
	t.Helper()

	logger := zap.NewNop()
	taskRepo := repo.NewTaskListRepo(cfg.MaxListsPerSession)
	taskService := service.NewTaskService(taskRepo, cfg)
	registry := session.NewRegistry(taskRepo, logger, cfg.SessionTimeout, cfg.MaxConcurrentSessions)

	taskHandler := handler.NewTaskHandler(taskService, registry, logger)
	sessionHandler := handler.NewSessionHandler(registry, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/tasklists", taskHandler.CreateTaskList)
		r.Get("/tasklists/{listID}", taskHandler.GetStatus)
		r.Get("/tasklists/{listID}/tasks/{taskID}", taskHandler.GetTask)
		r.Patch("/tasklists/{listID}/tasks/{taskID}", taskHandler.UpdateTask)
		r.Get("/stats", taskHandler.Stats)
		r.Get("/sessions", sessionHandler.List)
		r.Delete("/sessions/{sessionID}", sessionHandler.Delete)
	})

	server := httptest.NewServer(r)

	cleanup := func() {
		server.Close()
		registry.Shutdown()
	}

	return server, registry, cleanup
}

// DoRequest выполняет запрос с сессионным заголовком и разбирает конверт ответа
func DoRequest(t *testing.T, server *httptest.Server, method, path, sessionID string, body interface{}) (int, Envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(handler.SessionHeader, sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return resp.StatusCode, env
}

type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Unmarshal разбирает поле data конверта в указанную структуру
func (e Envelope) Unmarshal(t *testing.T, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(e.Data, out); err != nil {
		t.Fatalf("failed to unmarshal envelope data: %v", err)
	}
}

// WaitForCondition опрашивает условие до таймаута
func WaitForCondition(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}
