package repositories

import (
	"context"

	"estoquehub/internal/models"
)

// TaskRepository defines data access for the legacy tarefas table.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
}
