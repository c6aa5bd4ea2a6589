package services

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/solvemarket/marketplace-api/internal/models"
	"github.com/solvemarket/marketplace-api/internal/repository"
	"github.com/solvemarket/marketplace-api/internal/storage"
	"github.com/solvemarket/marketplace-api/internal/workflow"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SubmissionServiceTestSuite walks deliverables through upload, replacement
// and review against an in-memory database and a temp-dir blob store.
type SubmissionServiceTestSuite struct {
	suite.Suite
	db                *gorm.DB
	blobs             *storage.LocalStore
	projectService    *ProjectService
	requestService    *RequestService
	taskService       *TaskService
	submissionService *SubmissionService

	buyer  models.User
	solver models.User
	rival  models.User
}

func (suite *SubmissionServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Request{},
		&models.Task{},
		&models.Submission{},
	)
	suite.Require().NoError(err)

	suite.blobs, err = storage.NewLocalStore(suite.T().TempDir())
	suite.Require().NoError(err)

	projectRepo := repository.NewProjectRepository(suite.db)
	requestRepo := repository.NewRequestRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	submissionRepo := repository.NewSubmissionRepository(suite.db)

	suite.projectService = NewProjectService(projectRepo, requestRepo, taskRepo, suite.blobs)
	suite.requestService = NewRequestService(requestRepo, projectRepo)
	suite.taskService = NewTaskService(taskRepo, projectRepo)
	suite.submissionService = NewSubmissionService(submissionRepo, taskRepo, projectRepo, suite.blobs)

	suite.buyer = suite.createUser("buyer", models.RoleBuyer)
	suite.solver = suite.createUser("solver", models.RoleProblemSolver)
	suite.rival = suite.createUser("rival", models.RoleProblemSolver)
}

func (suite *SubmissionServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *SubmissionServiceTestSuite) createUser(username string, role models.UserRole) models.User {
	user := models.User{Username: username, PasswordHash: "hashed", Role: role}
	suite.Require().NoError(suite.db.Create(&user).Error)
	return user
}

// assignedTask sets up a project assigned to the suite solver with one task.
func (suite *SubmissionServiceTestSuite) assignedTask() (models.Project, models.Task) {
	project, err := suite.projectService.CreateProject(suite.buyer, CreateProjectInput{Title: "Data pipeline"})
	suite.Require().NoError(err)

	_, err = suite.requestService.CreateRequest(suite.solver, project.ID, "")
	suite.Require().NoError(err)
	_, err = suite.projectService.AssignSolver(suite.buyer, project.ID, suite.solver.ID)
	suite.Require().NoError(err)

	task, err := suite.taskService.CreateTask(suite.solver, CreateTaskInput{ProjectID: project.ID, Title: "Ingest"})
	suite.Require().NoError(err)

	fresh, err := suite.projectService.GetProject(suite.buyer, project.ID)
	suite.Require().NoError(err)
	return *fresh, *task
}

func (suite *SubmissionServiceTestSuite) submit(taskID uint64, content string) *models.Submission {
	submission, err := suite.submissionService.Submit(suite.solver, SubmitInput{
		TaskID:   taskID,
		FileName: "deliverable.zip",
		File:     strings.NewReader(content),
	})
	suite.Require().NoError(err)
	return submission
}

// Scenario: first upload creates the submission and forces the task to
// submitted; a second upload reuses the row and releases the first blob.
func (suite *SubmissionServiceTestSuite) TestSubmit_CreateThenReplace() {
	_, task := suite.assignedTask()

	first := suite.submit(task.ID, "v1 archive bytes")
	suite.Equal(models.SubmissionStatusPending, first.Status)
	suite.Equal(int64(len("v1 archive bytes")), first.FileSize)

	freshTask, err := suite.taskService.UpdateTaskStatus(suite.solver, task.ID, models.TaskStatusInProgress)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusInProgress, freshTask.Status)

	second := suite.submit(task.ID, "v2 archive bytes, bigger")
	suite.Equal(first.ID, second.ID)
	suite.Equal(models.SubmissionStatusPending, second.Status)

	// Exactly one row, pointing at the new blob; the old blob is gone.
	var count int64
	suite.db.Model(&models.Submission{}).Where("task_id = ?", task.ID).Count(&count)
	suite.Equal(int64(1), count)

	_, err = os.Stat(first.FilePath)
	suite.True(os.IsNotExist(err))
	_, err = os.Stat(second.FilePath)
	suite.NoError(err)

	var storedTask models.Task
	suite.Require().NoError(suite.db.First(&storedTask, task.ID).Error)
	suite.Equal(models.TaskStatusSubmitted, storedTask.Status)
}

func (suite *SubmissionServiceTestSuite) TestSubmit_RivalForbidden() {
	_, task := suite.assignedTask()

	_, err := suite.submissionService.Submit(suite.rival, SubmitInput{
		TaskID:   task.ID,
		FileName: "deliverable.zip",
		File:     strings.NewReader("stolen work"),
	})
	suite.True(workflow.IsKind(err, workflow.KindForbidden))
}

// Scenario: accepting the only task completes both the task and the project.
func (suite *SubmissionServiceTestSuite) TestReview_AcceptLastTaskCompletesProject() {
	project, task := suite.assignedTask()
	suite.submit(task.ID, "archive")

	reviewed, err := suite.submissionService.Review(suite.buyer, task.ID, models.SubmissionStatusAccepted)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusCompleted, reviewed.Status)

	var storedProject models.Project
	suite.Require().NoError(suite.db.First(&storedProject, project.ID).Error)
	suite.Equal(models.ProjectStatusCompleted, storedProject.Status)
}

func (suite *SubmissionServiceTestSuite) TestReview_AcceptNonLastTaskKeepsProjectRunning() {
	project, task := suite.assignedTask()
	_, err := suite.taskService.CreateTask(suite.solver, CreateTaskInput{ProjectID: project.ID, Title: "Transform"})
	suite.Require().NoError(err)

	suite.submit(task.ID, "archive")

	reviewed, err := suite.submissionService.Review(suite.buyer, task.ID, models.SubmissionStatusAccepted)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusCompleted, reviewed.Status)

	var storedProject models.Project
	suite.Require().NoError(suite.db.First(&storedProject, project.ID).Error)
	suite.Equal(models.ProjectStatusInProgress, storedProject.Status)
}

func (suite *SubmissionServiceTestSuite) TestReview_RejectSettlesTaskOnly() {
	project, task := suite.assignedTask()
	suite.submit(task.ID, "archive")

	reviewed, err := suite.submissionService.Review(suite.buyer, task.ID, models.SubmissionStatusRejected)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusRejected, reviewed.Status)

	var storedProject models.Project
	suite.Require().NoError(suite.db.First(&storedProject, project.ID).Error)
	suite.Equal(models.ProjectStatusInProgress, storedProject.Status)

	// Rejected tasks take no further uploads or verdicts.
	_, err = suite.submissionService.Submit(suite.solver, SubmitInput{
		TaskID:   task.ID,
		FileName: "retry.zip",
		File:     strings.NewReader("retry"),
	})
	suite.True(workflow.IsKind(err, workflow.KindInvalidState))

	_, err = suite.submissionService.Review(suite.buyer, task.ID, models.SubmissionStatusAccepted)
	suite.True(workflow.IsKind(err, workflow.KindInvalidState))
}

func (suite *SubmissionServiceTestSuite) TestReview_NotOwner() {
	_, task := suite.assignedTask()
	suite.submit(task.ID, "archive")

	other := suite.createUser("other-buyer", models.RoleBuyer)
	_, err := suite.submissionService.Review(other, task.ID, models.SubmissionStatusAccepted)
	suite.True(workflow.IsKind(err, workflow.KindNotFound))
}

func (suite *SubmissionServiceTestSuite) TestReview_WithoutSubmission() {
	_, task := suite.assignedTask()

	_, err := suite.submissionService.Review(suite.buyer, task.ID, models.SubmissionStatusAccepted)
	suite.True(workflow.IsKind(err, workflow.KindNotFound))
}

func (suite *SubmissionServiceTestSuite) TestDownload_Access() {
	_, task := suite.assignedTask()
	suite.submit(task.ID, "archive bytes")

	submission, reader, err := suite.submissionService.Download(suite.buyer, task.ID)
	suite.Require().NoError(err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	suite.Require().NoError(err)
	suite.Equal("archive bytes", string(content))
	suite.Equal("deliverable.zip", submission.FileName)

	_, _, err = suite.submissionService.Download(suite.rival, task.ID)
	suite.True(workflow.IsKind(err, workflow.KindNotFound))
}

func TestSubmissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubmissionServiceTestSuite))
}
