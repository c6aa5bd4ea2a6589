package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/solvemarket/marketplace-api/internal/models"
	"github.com/solvemarket/marketplace-api/internal/repository"
	"github.com/solvemarket/marketplace-api/internal/workflow"
	"gorm.io/gorm"
)

// TaskService handles task creation and direct status changes.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID   uint64
	Title       string
	Description string
}

// CreateTask creates a task on a project the actor is assigned to. The first
// task also moves the project into in_progress, atomically with the insert.
func (s *TaskService) CreateTask(actor models.User, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	project, err := s.findProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := workflow.Authorize(actor, workflow.ActionCreateTask, workflow.Target{Project: project}); err != nil {
		return nil, err
	}

	creation, err := workflow.DecideTaskCreation(*project, actor.ID, input.Title, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.CreateWithProjectStatus(&creation.Task, creation.ProjectStatus); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(creation.Task.ID, "Creator", "Project")
}

// ListTasks returns all tasks of a project the actor may inspect.
func (s *TaskService) ListTasks(actor models.User, projectID uint64) ([]models.Task, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := workflow.Authorize(actor, workflow.ActionViewTasks, workflow.Target{Project: project}); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTaskStatus applies a direct status change checked against the
// per-role transition tables.
func (s *TaskService) UpdateTaskStatus(actor models.User, taskID uint64, next models.TaskStatus) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.findProject(task.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := workflow.Authorize(actor, workflow.ActionUpdateTaskStatus, workflow.Target{Project: project, Task: task}); err != nil {
		return nil, err
	}

	if err := workflow.DecideTaskStatus(*task, *project, actor, next); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateStatus(taskID, next); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	task.Status = next
	return task, nil
}

func (s *TaskService) findProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NotFound("project not found")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NotFound("task not found")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
