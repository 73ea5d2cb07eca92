package model

import "time"

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid проверяет, что статус входит в допустимый набор
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Status             TaskStatus `json:"status"`
	AcceptanceCriteria string     `json:"acceptanceCriteria"`
	Evaluation         *int       `json:"evaluation,omitempty"` // 0-100, появляется только после явной оценки
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type TaskList struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	Tasks        []Task    `json:"tasks"`
	CreatedAt    time.Time `json:"createdAt"`
	LastAccessed time.Time `json:"lastAccessed"`
}

// TaskSeed - описание начальной задачи при создании списка
type TaskSeed struct {
	Title              string `json:"title"`
	AcceptanceCriteria string `json:"acceptanceCriteria"`
}

// TaskPatch - частичное обновление; nil-поля не трогаем
type TaskPatch struct {
	Title              *string     `json:"title,omitempty"`
	Status             *TaskStatus `json:"status,omitempty"`
	AcceptanceCriteria *string     `json:"acceptanceCriteria,omitempty"`
	Evaluation         *int        `json:"evaluation,omitempty"`
}

type CreateTaskListRequest struct {
	InitialTasks []TaskSeed `json:"initialTasks"`
}

type UpdateTaskRequest struct {
	Updates TaskPatch `json:"updates"`
}
