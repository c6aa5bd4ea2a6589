package repository

import (
	"github.com/solvemarket/marketplace-api/internal/models"
	"github.com/solvemarket/marketplace-api/internal/workflow"
	"gorm.io/gorm"
)

// GormSubmissionRepository is a GORM implementation of SubmissionRepository
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// FindByTaskID finds the submission of a task, if any
func (r *GormSubmissionRepository) FindByTaskID(taskID uint64) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.Where("task_id = ?", taskID).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByID finds a submission by ID
func (r *GormSubmissionRepository) FindByID(id uint64) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// ApplySubmission writes the submission row and forces the task to submitted
// in one transaction. A replacement keeps the original row (same ID); a first
// upload inserts, guarded by the unique index on task_id.
func (r *GormSubmissionRepository) ApplySubmission(change *workflow.SubmissionChange) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if change.Replaces != nil {
			if err := tx.Model(&models.Submission{}).Where("id = ?", change.Submission.ID).
				Updates(map[string]interface{}{
					"file_name": change.Submission.FileName,
					"file_path": change.Submission.FilePath,
					"file_size": change.Submission.FileSize,
					"note":      change.Submission.Note,
					"status":    change.Submission.Status,
				}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Create(&change.Submission).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Task{}).Where("id = ?", change.Submission.TaskID).
			Update("status", change.TaskStatus).Error
	})
}

// ApplyReview persists a verdict atomically: the submission's final status,
// the task's final status, and the project completion cascade when accepting
// the last open task.
func (r *GormSubmissionRepository) ApplyReview(submissionID, taskID, projectID uint64, review workflow.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Submission{}).Where("id = ?", submissionID).
			Update("status", review.SubmissionStatus).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("id = ?", taskID).
			Update("status", review.TaskStatus).Error; err != nil {
			return err
		}

		if review.ProjectStatus != nil {
			if err := tx.Model(&models.Project{}).Where("id = ?", projectID).
				Update("status", *review.ProjectStatus).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
