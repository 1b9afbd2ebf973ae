package repositories

import (
	"context"
	"sync"
	"time"

	"estoquehub/internal/models"
)

// MockTaskRepository is an in-memory implementation of TaskRepository.
type MockTaskRepository struct {
	tasks  []models.Task
	nextID uint
	mu     sync.Mutex
}

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{nextID: 1}
}

func (r *MockTaskRepository) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = r.nextID
	r.nextID++
	task.CreatedAt = time.Now()
	r.tasks = append(r.tasks, *task)
	return nil
}
