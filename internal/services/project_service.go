package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/solvemarket/marketplace-api/internal/models"
	"github.com/solvemarket/marketplace-api/internal/repository"
	"github.com/solvemarket/marketplace-api/internal/storage"
	"github.com/solvemarket/marketplace-api/internal/workflow"
	"gorm.io/gorm"
)

var ErrTitleRequired = errors.New("title is required")

// ProjectService handles project lifecycle: creation, listing, assignment and
// removal. Status transitions are decided by the workflow engine and persisted
// atomically by the repository.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	requestRepo repository.RequestRepository
	taskRepo    repository.TaskRepository
	blobs       storage.BlobStore
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, requestRepo repository.RequestRepository, taskRepo repository.TaskRepository, blobs storage.BlobStore) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		requestRepo: requestRepo,
		taskRepo:    taskRepo,
		blobs:       blobs,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Title       string
	Description string
	Budget      float64
}

// CreateProject creates an open project owned by the acting buyer.
func (s *ProjectService) CreateProject(actor models.User, input CreateProjectInput) (*models.Project, error) {
	if err := workflow.Authorize(actor, workflow.ActionCreateProject, workflow.Target{}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	project := &models.Project{
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		Status:      models.ProjectStatusOpen,
		BuyerID:     actor.ID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// GetProject returns a project the actor may see.
func (s *ProjectService) GetProject(actor models.User, projectID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID, "Buyer", "AssignedSolver")
	if err != nil {
		return nil, err
	}

	if err := workflow.Authorize(actor, workflow.ActionViewProject, workflow.Target{Project: project}); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjectsInput represents filters for listing projects
type ListProjectsInput struct {
	AssignedToMe bool
	Status       *models.ProjectStatus
	Page         int
	PageSize     int
}

// ListProjects returns the projects visible to the actor: buyers see their
// own, solvers browse open ones (or their assignments), admins see all.
func (s *ProjectService) ListProjects(actor models.User, input ListProjectsInput) ([]models.Project, int64, error) {
	filter := repository.ProjectFilter{
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	switch actor.Role {
	case models.RoleAdmin:
		// no scoping
	case models.RoleBuyer:
		filter.BuyerID = &actor.ID
	case models.RoleProblemSolver:
		if input.AssignedToMe {
			filter.AssignedSolverID = &actor.ID
		} else if filter.Status == nil {
			open := models.ProjectStatusOpen
			filter.Status = &open
		}
	default:
		return nil, 0, workflow.Forbidden("unknown role %q", actor.Role)
	}

	projects, total, err := s.projectRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// UpdateProjectInput represents input for updating a project
type UpdateProjectInput struct {
	Title       *string
	Description *string
	Budget      *float64
}

// UpdateProject edits an owned project. Only open projects can change; once a
// solver is working the terms are fixed.
func (s *ProjectService) UpdateProject(actor models.User, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := workflow.Authorize(actor, workflow.ActionUpdateProject, workflow.Target{Project: project}); err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusOpen {
		return nil, workflow.InvalidState("project is %s and can no longer be edited", project.Status)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		project.Title = *input.Title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Budget != nil {
		project.Budget = *input.Budget
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes an owned project with everything under it. Blobs of
// deleted submissions are released after the rows are gone.
func (s *ProjectService) DeleteProject(actor models.User, projectID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	if err := workflow.Authorize(actor, workflow.ActionDeleteProject, workflow.Target{Project: project}); err != nil {
		return err
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return fmt.Errorf("failed to list project tasks: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	for _, task := range tasks {
		if task.Submission == nil {
			continue
		}
		ref := storage.FileRef{Path: task.Submission.FilePath, Name: task.Submission.FileName}
		if err := s.blobs.Delete(ref); err != nil {
			// The rows are gone; a stray blob is only logged by the caller.
			return fmt.Errorf("project deleted but blob release failed: %w", err)
		}
	}
	return nil
}

// AssignSolver accepts one solver's request and rejects every sibling in a
// single atomic batch. A crash must never leave two accepted requests.
func (s *ProjectService) AssignSolver(actor models.User, projectID, solverID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if err := workflow.Authorize(actor, workflow.ActionAssignSolver, workflow.Target{Project: project}); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project requests: %w", err)
	}

	assignment, err := workflow.DecideAssignment(*project, solverID, requests)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.ApplyAssignment(projectID, assignment); err != nil {
		return nil, fmt.Errorf("failed to apply assignment: %w", err)
	}

	return s.projectRepo.FindByID(projectID, "Buyer", "AssignedSolver", "Requests")
}

func (s *ProjectService) findProject(projectID uint64, preload ...string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NotFound("project not found")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
