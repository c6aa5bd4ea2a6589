package repository

import (
	"github.com/solvemarket/marketplace-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateWithProjectStatus creates a task and applies the project status the
// engine decided (the first task advances assigned to in_progress) atomically.
func (r *GormTaskRepository) CreateWithProjectStatus(task *models.Task, projectStatus models.ProjectStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		return tx.Model(&models.Project{}).Where("id = ?", task.ProjectID).
			Update("status", projectStatus).Error
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject lists all tasks of a project
func (r *GormTaskRepository) ListByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("Submission").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateStatus changes a task's status
func (r *GormTaskRepository) UpdateStatus(taskID uint64, status models.TaskStatus) error {
	return r.db.Model(&models.Task{}).Where("id = ?", taskID).
		Update("status", status).Error
}
