package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BuzzLyutic/taskchecker-api/internal/config"
	"github.com/BuzzLyutic/taskchecker-api/internal/model"
	"github.com/BuzzLyutic/taskchecker-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

// ValidationError несет конкретный текст для ответа клиенту,
// но матчится через errors.Is(err, ErrValidation)
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type TaskService struct {
	repo repo.TaskListRepository
	cfg  config.Config
}

func NewTaskService(repo repo.TaskListRepository, cfg config.Config) *TaskService {
	return &TaskService{repo: repo, cfg: cfg}
}

func (s *TaskService) CreateTaskList(ctx context.Context, sessionID string, seeds []model.TaskSeed) (model.TaskList, error) {
	if s.cfg.MaxTasksPerList > 0 && len(seeds) > s.cfg.MaxTasksPerList {
		return model.TaskList{}, validationErrorf("Too many initial tasks (max %d)", s.cfg.MaxTasksPerList)
	}
	for i, seed := range seeds {
		if err := s.validateTitle(seed.Title); err != nil {
			return model.TaskList{}, fmt.Errorf("task %d: %w", i, err)
		}
		if err := s.validateCriteria(seed.AcceptanceCriteria); err != nil {
			return model.TaskList{}, fmt.Errorf("task %d: %w", i, err)
		}
	}
	return s.repo.Create(ctx, sessionID, seeds)
}

// UpdateTask применяет частичный патч. Валидация строго до мутации:
// некорректный патч не меняет задачу вообще
func (s *TaskService) UpdateTask(ctx context.Context, listID, taskID string, patch model.TaskPatch) (model.Task, error) {
	if patch.Evaluation != nil && (*patch.Evaluation < 0 || *patch.Evaluation > 100) {
		return model.Task{}, validationErrorf("Evaluation must be between 0 and 100")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return model.Task{}, validationErrorf("Status must be one of: %s, %s, %s",
			model.StatusPending, model.StatusInProgress, model.StatusCompleted)
	}
	if patch.Title != nil {
		if err := s.validateTitle(*patch.Title); err != nil {
			return model.Task{}, err
		}
	}
	if patch.AcceptanceCriteria != nil {
		if err := s.validateCriteria(*patch.AcceptanceCriteria); err != nil {
			return model.Task{}, err
		}
	}
	return s.repo.UpdateTask(ctx, listID, taskID, patch)
}

func (s *TaskService) GetTask(ctx context.Context, listID, taskID string) (model.Task, error) {
	return s.repo.GetTask(ctx, listID, taskID)
}

func (s *TaskService) GetAllTasks(ctx context.Context, listID string) ([]model.Task, error) {
	return s.repo.ListTasks(ctx, listID)
}

func (s *TaskService) GetTaskList(ctx context.Context, listID string) (model.TaskList, error) {
	return s.repo.Get(ctx, listID)
}

func (s *TaskService) GetStats(ctx context.Context) (repo.Stats, error) {
	return s.repo.GetStats(ctx)
}

func (s *TaskService) validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return validationErrorf("Title must not be empty")
	}
	if s.cfg.TitleMaxLength > 0 && len(title) > s.cfg.TitleMaxLength {
		return validationErrorf("Title must be at most %d characters", s.cfg.TitleMaxLength)
	}
	return nil
}

func (s *TaskService) validateCriteria(criteria string) error {
	if s.cfg.CriteriaMaxLength > 0 && len(criteria) > s.cfg.CriteriaMaxLength {
		return validationErrorf("Acceptance criteria must be at most %d characters", s.cfg.CriteriaMaxLength)
	}
	return nil
}
