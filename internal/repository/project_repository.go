package repository

import (
	"github.com/solvemarket/marketplace-api/internal/database"
	"github.com/solvemarket/marketplace-api/internal/models"
	"github.com/solvemarket/marketplace-api/internal/utils"
	"github.com/solvemarket/marketplace-api/internal/workflow"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{})
	if filter.BuyerID != nil {
		query = query.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.AssignedSolverID != nil {
		query = query.Where("assigned_solver_id = ?", *filter.AssignedSolverID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Offset: (filter.Page - 1) * filter.PageSize,
			Limit:  filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Buyer").Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project, its requests, its tasks and their submissions in
// one transaction. A project strictly owns everything under it.
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Submission{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Request{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// ApplyAssignment persists an assignment batch as one atomic transition: the
// project moves to assigned with its solver set, the winning request is
// accepted, and every other request is rejected. Partial application must
// never be observable.
func (r *GormProjectRepository) ApplyAssignment(projectID uint64, assignment workflow.Assignment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).Where("id = ?", projectID).
			Updates(map[string]interface{}{
				"status":             assignment.ProjectStatus,
				"assigned_solver_id": assignment.AssignedSolverID,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Request{}).Where("id = ?", assignment.AcceptedRequestID).
			Update("status", models.RequestStatusAccepted).Error; err != nil {
			return err
		}

		if len(assignment.RejectedRequestIDs) > 0 {
			if err := tx.Model(&models.Request{}).Where("id IN ?", assignment.RejectedRequestIDs).
				Update("status", models.RequestStatusRejected).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
