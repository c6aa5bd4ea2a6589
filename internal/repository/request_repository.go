package repository

import (
	"github.com/solvemarket/marketplace-api/internal/models"
	"gorm.io/gorm"
)

// GormRequestRepository is a GORM implementation of RequestRepository
type GormRequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &GormRequestRepository{db: db}
}

// Create inserts a new request. The unique index on (project_id, solver_id)
// is the real duplicate guard; callers translate gorm.ErrDuplicatedKey.
func (r *GormRequestRepository) Create(request *models.Request) error {
	return r.db.Create(request).Error
}

// FindByProjectAndSolver finds a solver's request for a project
func (r *GormRequestRepository) FindByProjectAndSolver(projectID, solverID uint64) (*models.Request, error) {
	var request models.Request
	if err := r.db.Where("project_id = ? AND solver_id = ?", projectID, solverID).
		First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ListByProject lists all requests for a project
func (r *GormRequestRepository) ListByProject(projectID uint64) ([]models.Request, error) {
	var requests []models.Request
	if err := r.db.Preload("Solver").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListBySolver lists all requests made by a solver
func (r *GormRequestRepository) ListBySolver(solverID uint64) ([]models.Request, error) {
	var requests []models.Request
	if err := r.db.Preload("Project").
		Where("solver_id = ?", solverID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
