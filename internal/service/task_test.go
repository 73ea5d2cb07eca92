package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskchecker-api/internal/config"
	"github.com/BuzzLyutic/taskchecker-api/internal/model"
	"github.com/BuzzLyutic/taskchecker-api/internal/repo"
)

// MockTaskListRepository - мок репозитория
type MockTaskListRepository struct {
	mock.Mock
}

func (m *MockTaskListRepository) Create(ctx context.Context, sessionID string, seeds []model.TaskSeed) (model.TaskList, error) {
	args := m.Called(ctx, sessionID, seeds)
	return args.Get(0).(model.TaskList), args.Error(1)
}

func (m *MockTaskListRepository) Get(ctx context.Context, listID string) (model.TaskList, error) {
	args := m.Called(ctx, listID)
	return args.Get(0).(model.TaskList), args.Error(1)
}

func (m *MockTaskListRepository) UpdateTask(ctx context.Context, listID, taskID string, patch model.TaskPatch) (model.Task, error) {
	args := m.Called(ctx, listID, taskID, patch)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskListRepository) GetTask(ctx context.Context, listID, taskID string) (model.Task, error) {
	args := m.Called(ctx, listID, taskID)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskListRepository) ListTasks(ctx context.Context, listID string) ([]model.Task, error) {
	args := m.Called(ctx, listID)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskListRepository) Delete(ctx context.Context, listID string) bool {
	args := m.Called(ctx, listID)
	return args.Bool(0)
}

func (m *MockTaskListRepository) DeleteBySession(ctx context.Context, sessionID string) int {
	args := m.Called(ctx, sessionID)
	return args.Int(0)
}

func (m *MockTaskListRepository) DeleteOlderThan(ctx context.Context, maxAge time.Duration) int {
	args := m.Called(ctx, maxAge)
	return args.Int(0)
}

func (m *MockTaskListRepository) CountBySession(ctx context.Context, sessionID string) int {
	args := m.Called(ctx, sessionID)
	return args.Int(0)
}

func (m *MockTaskListRepository) GetStats(ctx context.Context) (repo.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(repo.Stats), args.Error(1)
}

func testConfig() config.Config {
	return config.Config{
		MaxTasksPerList:   100,
		TitleMaxLength:    255,
		CriteriaMaxLength: 1000,
	}
}

func intPtr(v int) *int                              { return &v }
func strPtr(v string) *string                        { return &v }
func statusPtr(v model.TaskStatus) *model.TaskStatus { return &v }

func TestTaskService_CreateTaskList(t *testing.T) {
	tests := []struct {
		name      string
		seeds     []model.TaskSeed
		setupMock func(*MockTaskListRepository)
		wantErr   error
	}{
		{
			name: "successful creation with seeds",
			seeds: []model.TaskSeed{
				{Title: "Write unit tests", AcceptanceCriteria: "Coverage above 80%"},
			},
			setupMock: func(m *MockTaskListRepository) {
				m.On("Create", mock.Anything, "session-a", mock.Anything).Return(model.TaskList{
					ID:        "list-1",
					SessionID: "session-a",
					Tasks: []model.Task{
						{ID: "task-1", Title: "Write unit tests", Status: model.StatusPending},
					},
				}, nil)
			},
			wantErr: nil,
		},
		{
			name:  "empty seeds allowed",
			seeds: nil,
			setupMock: func(m *MockTaskListRepository) {
				m.On("Create", mock.Anything, "session-a", mock.Anything).Return(model.TaskList{
					ID:        "list-2",
					SessionID: "session-a",
				}, nil)
			},
			wantErr: nil,
		},
		{
			name: "validation error - empty title",
			seeds: []model.TaskSeed{
				{Title: "   ", AcceptanceCriteria: "Anything"},
			},
			setupMock: func(m *MockTaskListRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name: "validation error - title too long",
			seeds: []model.TaskSeed{
				{Title: strings.Repeat("x", 256), AcceptanceCriteria: "Anything"},
			},
			setupMock: func(m *MockTaskListRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name: "validation error - criteria too long",
			seeds: []model.TaskSeed{
				{Title: "Task", AcceptanceCriteria: strings.Repeat("x", 1001)},
			},
			setupMock: func(m *MockTaskListRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "validation error - too many tasks",
			seeds:     make([]model.TaskSeed, 101),
			setupMock: func(m *MockTaskListRepository) {},
			wantErr:   ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskListRepository)
			tt.setupMock(mockRepo)

			service := NewTaskService(mockRepo, testConfig())
			result, err := service.CreateTaskList(context.Background(), "session-a", tt.seeds)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, result.ID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_UpdateTask(t *testing.T) {
	tests := []struct {
		name      string
		patch     model.TaskPatch
		setupMock func(*MockTaskListRepository)
		wantErr   error
	}{
		{
			name:  "successful status update",
			patch: model.TaskPatch{Status: statusPtr(model.StatusInProgress)},
			setupMock: func(m *MockTaskListRepository) {
				m.On("UpdateTask", mock.Anything, "list-1", "task-1", mock.Anything).Return(model.Task{
					ID:     "task-1",
					Title:  "Task",
					Status: model.StatusInProgress,
				}, nil)
			},
			wantErr: nil,
		},
		{
			name:  "evaluation boundary values accepted",
			patch: model.TaskPatch{Evaluation: intPtr(0)},
			setupMock: func(m *MockTaskListRepository) {
				m.On("UpdateTask", mock.Anything, "list-1", "task-1", mock.Anything).Return(model.Task{
					ID:         "task-1",
					Evaluation: intPtr(0),
				}, nil)
			},
			wantErr: nil,
		},
		{
			name:      "evaluation below range",
			patch:     model.TaskPatch{Evaluation: intPtr(-1)},
			setupMock: func(m *MockTaskListRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "evaluation above range",
			patch:     model.TaskPatch{Evaluation: intPtr(101)},
			setupMock: func(m *MockTaskListRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "invalid status value",
			patch:     model.TaskPatch{Status: statusPtr("cancelled")},
			setupMock: func(m *MockTaskListRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "empty title rejected",
			patch:     model.TaskPatch{Title: strPtr("")},
			setupMock: func(m *MockTaskListRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:  "not found from repo",
			patch: model.TaskPatch{Status: statusPtr(model.StatusCompleted)},
			setupMock: func(m *MockTaskListRepository) {
				m.On("UpdateTask", mock.Anything, "list-1", "task-1", mock.Anything).
					Return(model.Task{}, repo.ErrorNotFound)
			},
			wantErr: repo.ErrorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskListRepository)
			tt.setupMock(mockRepo)

			service := NewTaskService(mockRepo, testConfig())
			_, err := service.UpdateTask(context.Background(), "list-1", "task-1", tt.patch)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			// Невалидный патч не должен дойти до репозитория
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_ValidationErrorMessage(t *testing.T) {
	service := NewTaskService(new(MockTaskListRepository), testConfig())

	_, err := service.UpdateTask(context.Background(), "list-1", "task-1", model.TaskPatch{
		Evaluation: intPtr(150),
	})

	require.Error(t, err)
	assert.Equal(t, "Evaluation must be between 0 and 100", err.Error())
}

func TestTaskService_GetStats(t *testing.T) {
	mockRepo := new(MockTaskListRepository)
	expectedStats := repo.Stats{
		TotalTaskLists: 2,
		TotalTasks:     7,
		ByStatus: map[string]int{
			"pending":     4,
			"in_progress": 2,
			"completed":   1,
		},
	}

	mockRepo.On("GetStats", mock.Anything).Return(expectedStats, nil)

	service := NewTaskService(mockRepo, testConfig())
	stats, err := service.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, expectedStats, stats)
	mockRepo.AssertExpectations(t)
}
