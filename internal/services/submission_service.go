package services

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/solvemarket/marketplace-api/internal/models"
	"github.com/solvemarket/marketplace-api/internal/repository"
	"github.com/solvemarket/marketplace-api/internal/storage"
	"github.com/solvemarket/marketplace-api/internal/workflow"
	"gorm.io/gorm"
)

// SubmissionService handles deliverable uploads, downloads and buyer reviews.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	taskRepo       repository.TaskRepository
	projectRepo    repository.ProjectRepository
	blobs          storage.BlobStore
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(submissionRepo repository.SubmissionRepository, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, blobs storage.BlobStore) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		taskRepo:       taskRepo,
		projectRepo:    projectRepo,
		blobs:          blobs,
	}
}

// SubmitInput carries an already size/type-validated upload stream. The
// handler enforces the archive whitelist and the 50 MiB cap before any row or
// blob is written.
type SubmitInput struct {
	TaskID   uint64
	FileName string
	Note     string
	File     io.Reader
}

// Submit stores the deliverable for a task. A task holds at most one
// submission: resubmitting updates the row in place, resets it to pending and
// releases the previous blob once the transaction has committed. The task is
// forced to submitted whatever its prior working state.
func (s *SubmissionService) Submit(actor models.User, input SubmitInput) (*models.Submission, error) {
	task, project, err := s.findTaskWithProject(input.TaskID)
	if err != nil {
		return nil, err
	}

	if err := workflow.Authorize(actor, workflow.ActionSubmitWork, workflow.Target{Project: project, Task: task}); err != nil {
		return nil, err
	}

	existing, err := s.submissionRepo.FindByTaskID(task.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing submission: %w", err)
	}

	ref, err := s.blobs.Save(input.File, input.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to store deliverable: %w", err)
	}

	change, err := workflow.DecideSubmission(*task, *project, actor.ID, models.Submission{
		FileName: ref.Name,
		FilePath: ref.Path,
		FileSize: ref.Size,
		Note:     input.Note,
	}, existing)
	if err != nil {
		// The blob was written before the decision; release it on denial.
		if delErr := s.blobs.Delete(ref); delErr != nil {
			log.Printf("failed to release rejected upload %s: %v", ref.Path, delErr)
		}
		return nil, err
	}

	if err := s.submissionRepo.ApplySubmission(&change); err != nil {
		if delErr := s.blobs.Delete(ref); delErr != nil {
			log.Printf("failed to release orphaned upload %s: %v", ref.Path, delErr)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, workflow.Conflict("a submission for this task already exists")
		}
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	// Only after the new row is durable is the replaced blob released.
	if change.Replaces != nil {
		oldRef := storage.FileRef{Path: change.Replaces.FilePath, Name: change.Replaces.FileName}
		if err := s.blobs.Delete(oldRef); err != nil {
			log.Printf("failed to release replaced upload %s: %v", oldRef.Path, err)
		}
	}

	return &change.Submission, nil
}

// Download opens the deliverable of a task for the buyer, the assigned solver
// or an admin.
func (s *SubmissionService) Download(actor models.User, taskID uint64) (*models.Submission, io.ReadCloser, error) {
	task, project, err := s.findTaskWithProject(taskID)
	if err != nil {
		return nil, nil, err
	}

	if err := workflow.Authorize(actor, workflow.ActionDownloadWork, workflow.Target{Project: project, Task: task}); err != nil {
		return nil, nil, err
	}

	submission, err := s.submissionRepo.FindByTaskID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, workflow.NotFound("submission not found")
		}
		return nil, nil, fmt.Errorf("failed to find submission: %w", err)
	}

	reader, err := s.blobs.Open(storage.FileRef{Path: submission.FilePath, Name: submission.FileName})
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, nil, workflow.NotFound("submission file not found")
		}
		return nil, nil, fmt.Errorf("failed to open submission file: %w", err)
	}

	return submission, reader, nil
}

// Review applies the buyer's verdict on a task's submission. Accepting the
// last incomplete task also completes the project, in the same transaction.
func (s *SubmissionService) Review(actor models.User, taskID uint64, verdict models.SubmissionStatus) (*models.Task, error) {
	task, project, err := s.findTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}

	if err := workflow.Authorize(actor, workflow.ActionReviewSubmission, workflow.Target{Project: project, Task: task}); err != nil {
		return nil, err
	}

	submission, err := s.submissionRepo.FindByTaskID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NotFound("submission not found")
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	allTasks, err := s.taskRepo.ListByProject(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project tasks: %w", err)
	}

	review, err := workflow.DecideReview(*submission, *task, *project, actor.ID, verdict, allTasks)
	if err != nil {
		return nil, err
	}

	if err := s.submissionRepo.ApplyReview(submission.ID, task.ID, project.ID, review); err != nil {
		return nil, fmt.Errorf("failed to apply review: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Submission", "Project")
}

func (s *SubmissionService) findTaskWithProject(taskID uint64) (*models.Task, *models.Project, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, workflow.NotFound("task not found")
		}
		return nil, nil, fmt.Errorf("failed to find task: %w", err)
	}

	project, err := s.projectRepo.FindByID(task.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, workflow.NotFound("project not found")
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	return task, project, nil
}
