package repo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/taskchecker-api/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorLimit    = errors.New("limit exceeded")
)

type TaskListRepo struct { // Репозиторий, хранит все списки задач в памяти процесса
	mu                 sync.RWMutex
	lists              map[string]*model.TaskList
	maxListsPerSession int
}

func NewTaskListRepo(maxListsPerSession int) *TaskListRepo { // Конструктор
	return &TaskListRepo{
		lists:              make(map[string]*model.TaskList),
		maxListsPerSession: maxListsPerSession,
	}
}

func (r *TaskListRepo) Create(ctx context.Context, sessionID string, seeds []model.TaskSeed) (model.TaskList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Лимит списков на сессию проверяем под той же блокировкой, что и вставку
	if r.maxListsPerSession > 0 && r.countBySessionLocked(sessionID) >= r.maxListsPerSession {
		return model.TaskList{}, ErrorLimit
	}

	now := time.Now()
	tasks := make([]model.Task, 0, len(seeds))
	for _, seed := range seeds {
		tasks = append(tasks, model.Task{
			ID:                 uuid.NewString(),
			Title:              seed.Title,
			Status:             model.StatusPending,
			AcceptanceCriteria: seed.AcceptanceCriteria,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}

	list := &model.TaskList{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		Tasks:        tasks,
		CreatedAt:    now,
		LastAccessed: now,
	}
	r.lists[list.ID] = list

	return copyList(list), nil
}

func (r *TaskListRepo) Get(ctx context.Context, listID string) (model.TaskList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.lists[listID]
	if !ok {
		return model.TaskList{}, ErrorNotFound
	}
	list.LastAccessed = time.Now() // Каждое успешное чтение продлевает жизнь списка

	return copyList(list), nil
}

func (r *TaskListRepo) UpdateTask(ctx context.Context, listID, taskID string, patch model.TaskPatch) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.lists[listID]
	if !ok {
		return model.Task{}, ErrorNotFound
	}
	list.LastAccessed = time.Now()

	idx := -1
	for i := range list.Tasks {
		if list.Tasks[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return model.Task{}, ErrorNotFound
	}

	// Собираем новое значение из старого и патча, затем заменяем целиком
	updated := list.Tasks[idx]
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	if patch.AcceptanceCriteria != nil {
		updated.AcceptanceCriteria = *patch.AcceptanceCriteria
	}
	if patch.Evaluation != nil {
		eval := *patch.Evaluation
		updated.Evaluation = &eval
	}
	updated.UpdatedAt = time.Now()

	list.Tasks[idx] = updated
	return copyTask(updated), nil
}

func (r *TaskListRepo) GetTask(ctx context.Context, listID, taskID string) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.lists[listID]
	if !ok {
		return model.Task{}, ErrorNotFound
	}
	list.LastAccessed = time.Now()

	for i := range list.Tasks {
		if list.Tasks[i].ID == taskID {
			return copyTask(list.Tasks[i]), nil
		}
	}
	return model.Task{}, ErrorNotFound
}

func (r *TaskListRepo) ListTasks(ctx context.Context, listID string) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.lists[listID]
	if !ok {
		return nil, ErrorNotFound
	}
	list.LastAccessed = time.Now()

	tasks := make([]model.Task, 0, len(list.Tasks))
	for i := range list.Tasks {
		tasks = append(tasks, copyTask(list.Tasks[i]))
	}
	return tasks, nil
}

func (r *TaskListRepo) Delete(ctx context.Context, listID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lists[listID]; !ok {
		return false
	}
	delete(r.lists, listID)
	return true
}

func (r *TaskListRepo) DeleteBySession(ctx context.Context, sessionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, list := range r.lists {
		if list.SessionID == sessionID {
			delete(r.lists, id)
			deleted++
		}
	}
	return deleted
}

func (r *TaskListRepo) DeleteOlderThan(ctx context.Context, maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	deleted := 0
	for id, list := range r.lists {
		if now.Sub(list.LastAccessed) > maxAge {
			delete(r.lists, id)
			deleted++
		}
	}
	return deleted
}

func (r *TaskListRepo) CountBySession(ctx context.Context, sessionID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countBySessionLocked(sessionID)
}

func (r *TaskListRepo) GetStats(ctx context.Context) (Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		TotalTaskLists: len(r.lists),
		ByStatus:       make(map[string]int),
	}
	for _, list := range r.lists {
		stats.TotalTasks += len(list.Tasks)
		for i := range list.Tasks {
			stats.ByStatus[string(list.Tasks[i].Status)]++
		}
	}
	return stats, nil
}

func (r *TaskListRepo) countBySessionLocked(sessionID string) int {
	count := 0
	for _, list := range r.lists {
		if list.SessionID == sessionID {
			count++
		}
	}
	return count
}

// Наружу отдаем только копии, чтобы никто не держал указатели внутрь хранилища
func copyTask(t model.Task) model.Task {
	if t.Evaluation != nil {
		eval := *t.Evaluation
		t.Evaluation = &eval
	}
	return t
}

func copyList(l *model.TaskList) model.TaskList {
	out := *l
	out.Tasks = make([]model.Task, 0, len(l.Tasks))
	for i := range l.Tasks {
		out.Tasks = append(out.Tasks, copyTask(l.Tasks[i]))
	}
	return out
}
