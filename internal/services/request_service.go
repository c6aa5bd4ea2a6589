package services

import (
	"errors"
	"fmt"

	"github.com/solvemarket/marketplace-api/internal/models"
	"github.com/solvemarket/marketplace-api/internal/repository"
	"github.com/solvemarket/marketplace-api/internal/workflow"
	"gorm.io/gorm"
)

// RequestService handles solvers' bids on open projects.
type RequestService struct {
	requestRepo repository.RequestRepository
	projectRepo repository.ProjectRepository
}

// NewRequestService creates a new RequestService
func NewRequestService(requestRepo repository.RequestRepository, projectRepo repository.ProjectRepository) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		projectRepo: projectRepo,
	}
}

// CreateRequest places a solver's bid on an open project. The pre-check is an
// idempotency guard; the unique index closes the concurrent window.
func (s *RequestService) CreateRequest(actor models.User, projectID uint64, message string) (*models.Request, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NotFound("project not found")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := workflow.Authorize(actor, workflow.ActionCreateRequest, workflow.Target{Project: project}); err != nil {
		return nil, err
	}

	existing, err := s.requestRepo.FindByProjectAndSolver(projectID, actor.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing request: %w", err)
	}

	request, err := workflow.DecideRequest(*project, actor.ID, existing, message)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Create(&request); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, workflow.Conflict("a request for this project already exists")
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return &request, nil
}

// ListForProject returns all requests on an owned project.
func (s *RequestService) ListForProject(actor models.User, projectID uint64) ([]models.Request, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NotFound("project not found")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := workflow.Authorize(actor, workflow.ActionListRequests, workflow.Target{Project: project}); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// ListMine returns the actor's own requests across all projects.
func (s *RequestService) ListMine(actor models.User) ([]models.Request, error) {
	requests, err := s.requestRepo.ListBySolver(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}
