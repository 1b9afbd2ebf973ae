package services

import (
	"context"

	"estoquehub/internal/models"
	"estoquehub/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// TaskInput is the request schema for the legacy POST /tarefas.
type TaskInput struct {
	Titulo    string  `json:"titulo" validate:"required"`
	Descricao string  `json:"descricao"`
	UsuarioID *string `json:"usuario_id"`
}

// TaskService backs the legacy tarefas resource.
type TaskService struct {
	repo     repositories.TaskRepository
	validate *validator.Validate
}

func NewTaskService(repo repositories.TaskRepository) *TaskService {
	return &TaskService{repo: repo, validate: validator.New()}
}

// CreateTask stores a task and returns it.
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*models.Task, error) {
	if err := validateInput(s.validate, input, "titulo is required", nil); err != nil {
		return nil, err
	}

	task := &models.Task{
		Titulo:    input.Titulo,
		Descricao: input.Descricao,
		UsuarioID: input.UsuarioID,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, NewDependencyError("failed to create task", err)
	}
	return task, nil
}
