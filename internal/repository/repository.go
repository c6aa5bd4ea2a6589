package repository

import (
	"github.com/solvemarket/marketplace-api/internal/models"
	"github.com/solvemarket/marketplace-api/internal/workflow"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List returns users with pagination
	List(page, pageSize int) ([]models.User, int64, error)

	// Update saves user changes (profile fields, role)
	Update(user *models.User) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// List retrieves projects with filtering and pagination
	List(filter ProjectFilter) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project and everything under it in one transaction
	Delete(id uint64) error

	// ApplyAssignment persists an assignment batch atomically: the project
	// transition, the accepted request, and every rejected sibling.
	ApplyAssignment(projectID uint64, assignment workflow.Assignment) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	BuyerID          *uint64
	AssignedSolverID *uint64
	Status           *models.ProjectStatus
	Page             int
	PageSize         int
}

// RequestRepository defines the interface for request data access
type RequestRepository interface {
	// Create inserts a new request; duplicate (project, solver) pairs fail
	// on the unique index
	Create(request *models.Request) error

	// FindByProjectAndSolver finds a solver's request for a project
	FindByProjectAndSolver(projectID, solverID uint64) (*models.Request, error)

	// ListByProject lists all requests for a project
	ListByProject(projectID uint64) ([]models.Request, error)

	// ListBySolver lists all requests made by a solver
	ListBySolver(solverID uint64) ([]models.Request, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// CreateWithProjectStatus creates a task and moves the project to the
	// given status in one transaction
	CreateWithProjectStatus(task *models.Task, projectStatus models.ProjectStatus) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject lists all tasks of a project
	ListByProject(projectID uint64) ([]models.Task, error)

	// UpdateStatus changes a task's status
	UpdateStatus(taskID uint64, status models.TaskStatus) error
}

// SubmissionRepository defines the interface for submission data access
type SubmissionRepository interface {
	// FindByTaskID finds the submission of a task, if any
	FindByTaskID(taskID uint64) (*models.Submission, error)

	// FindByID finds a submission by ID
	FindByID(id uint64) (*models.Submission, error)

	// ApplySubmission saves the submission row (insert or in-place replace)
	// and forces the task status in one transaction
	ApplySubmission(change *workflow.SubmissionChange) error

	// ApplyReview persists a review verdict: submission status, task status,
	// and the project completion cascade, all in one transaction
	ApplyReview(submissionID, taskID, projectID uint64, review workflow.Review) error
}
