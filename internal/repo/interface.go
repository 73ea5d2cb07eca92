package repo

import (
	"context"
	"time"

	"github.com/BuzzLyutic/taskchecker-api/internal/model"
)

// TaskListRepository определяет интерфейс для работы со списками задач
type TaskListRepository interface {
	Create(ctx context.Context, sessionID string, seeds []model.TaskSeed) (model.TaskList, error)
	Get(ctx context.Context, listID string) (model.TaskList, error)
	UpdateTask(ctx context.Context, listID, taskID string, patch model.TaskPatch) (model.Task, error)
	GetTask(ctx context.Context, listID, taskID string) (model.Task, error)
	ListTasks(ctx context.Context, listID string) ([]model.Task, error)
	Delete(ctx context.Context, listID string) bool
	DeleteBySession(ctx context.Context, sessionID string) int
	DeleteOlderThan(ctx context.Context, maxAge time.Duration) int
	CountBySession(ctx context.Context, sessionID string) int
	GetStats(ctx context.Context) (Stats, error)
}

type Stats struct {
	TotalTaskLists int            `json:"totalTaskLists"`
	TotalTasks     int            `json:"totalTasks"`
	ByStatus       map[string]int `json:"byStatus"`
}
