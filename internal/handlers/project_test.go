package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/solvemarket/marketplace-api/internal/constants"
	"github.com/solvemarket/marketplace-api/internal/database"
	"github.com/solvemarket/marketplace-api/internal/dto"
	"github.com/solvemarket/marketplace-api/internal/models"
	"github.com/solvemarket/marketplace-api/internal/repository"
	"github.com/solvemarket/marketplace-api/internal/services"
	"github.com/solvemarket/marketplace-api/internal/storage"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *ProjectHandler
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
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

	database.SetDB(suite.db)

	blobs, err := storage.NewLocalStore(suite.T().TempDir())
	suite.Require().NoError(err)

	projectRepo := repository.NewProjectRepository(suite.db)
	requestRepo := repository.NewRequestRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	projectService := services.NewProjectService(projectRepo, requestRepo, taskRepo, blobs)
	suite.handler = NewProjectHandler(projectService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ProjectHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *ProjectHandlerTestSuite) createTestUser(username string, role models.UserRole) models.User {
	user := models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.Require().NoError(suite.db.Create(&user).Error)
	return user
}

func (suite *ProjectHandlerTestSuite) createTestProject(buyerID uint64, status models.ProjectStatus) models.Project {
	project := models.Project{
		Title:   "Test Project",
		Budget:  1500,
		Status:  status,
		BuyerID: buyerID,
	}
	suite.Require().NoError(suite.db.Create(&project).Error)
	return project
}

func (suite *ProjectHandlerTestSuite) createTestRequest(projectID, solverID uint64) models.Request {
	request := models.Request{
		ProjectID: projectID,
		SolverID:  solverID,
		Message:   "I can do this",
		Status:    models.RequestStatusPending,
	}
	suite.Require().NoError(suite.db.Create(&request).Error)
	return request
}

// Helper function to build an authenticated context
func (suite *ProjectHandlerTestSuite) createAuthContext(method, url string, body []byte, actor models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, actor.ID)
	c.Set(constants.ContextKeyUser, actor)

	return c, w
}

func (suite *ProjectHandlerTestSuite) TestCreateProject() {
	buyer := suite.createTestUser("buyer", models.RoleBuyer)

	body, err := json.Marshal(map[string]any{
		"title":       "Build a scraper",
		"description": "Scrape product listings",
		"budget":      2000,
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodPost, "/api/projects", body, buyer)
	suite.handler.CreateProject(c)

	suite.Equal(http.StatusCreated, w.Code)

	var response dto.ProjectDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Build a scraper", response.Title)
	suite.Equal(models.ProjectStatusOpen, response.Status)
	suite.Equal(buyer.ID, response.BuyerID)
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_SolverForbidden() {
	solver := suite.createTestUser("solver", models.RoleProblemSolver)

	body, err := json.Marshal(map[string]any{"title": "Nope"})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodPost, "/api/projects", body, solver)
	suite.handler.CreateProject(c)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_MissingTitle() {
	buyer := suite.createTestUser("buyer", models.RoleBuyer)

	body, err := json.Marshal(map[string]any{"description": "no title"})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodPost, "/api/projects", body, buyer)
	suite.handler.CreateProject(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestGetProject() {
	buyer := suite.createTestUser("buyer", models.RoleBuyer)
	project := suite.createTestProject(buyer.ID, models.ProjectStatusOpen)

	c, w := suite.createAuthContext(http.MethodGet, "/api/projects/1", nil, buyer)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.GetProject(c)

	suite.Equal(http.StatusOK, w.Code)

	var response dto.ProjectDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(project.ID, response.ID)
}

func (suite *ProjectHandlerTestSuite) TestGetProject_NotFound() {
	buyer := suite.createTestUser("buyer", models.RoleBuyer)

	c, w := suite.createAuthContext(http.MethodGet, "/api/projects/999", nil, buyer)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	suite.handler.GetProject(c)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestAssignSolver() {
	buyer := suite.createTestUser("buyer", models.RoleBuyer)
	winner := suite.createTestUser("winner", models.RoleProblemSolver)
	loser := suite.createTestUser("loser", models.RoleProblemSolver)
	project := suite.createTestProject(buyer.ID, models.ProjectStatusOpen)
	suite.createTestRequest(project.ID, winner.ID)
	suite.createTestRequest(project.ID, loser.ID)

	body, err := json.Marshal(map[string]any{"solver_id": winner.ID})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodPost, "/api/projects/1/assign", body, buyer)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.AssignSolver(c)

	suite.Equal(http.StatusOK, w.Code)

	var response dto.ProjectDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(models.ProjectStatusAssigned, response.Status)
	suite.Require().NotNil(response.AssignedSolverID)
	suite.Equal(winner.ID, *response.AssignedSolverID)

	var rejected int64
	suite.Require().NoError(suite.db.Model(&models.Request{}).
		Where("status = ?", models.RequestStatusRejected).Count(&rejected).Error)
	suite.Equal(int64(1), rejected)
}

func (suite *ProjectHandlerTestSuite) TestAssignSolver_AlreadyAssigned() {
	buyer := suite.createTestUser("buyer", models.RoleBuyer)
	solver := suite.createTestUser("solver", models.RoleProblemSolver)
	project := suite.createTestProject(buyer.ID, models.ProjectStatusAssigned)
	suite.createTestRequest(project.ID, solver.ID)

	body, err := json.Marshal(map[string]any{"solver_id": solver.ID})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodPost, "/api/projects/1/assign", body, buyer)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.AssignSolver(c)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestAssignSolver_NotOwner() {
	buyer := suite.createTestUser("buyer", models.RoleBuyer)
	other := suite.createTestUser("other", models.RoleBuyer)
	solver := suite.createTestUser("solver", models.RoleProblemSolver)
	project := suite.createTestProject(buyer.ID, models.ProjectStatusOpen)
	suite.createTestRequest(project.ID, solver.ID)

	body, err := json.Marshal(map[string]any{"solver_id": solver.ID})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodPost, "/api/projects/1/assign", body, other)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.AssignSolver(c)

	// Another buyer's project is invisible, not forbidden.
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestUpdateProject_LockedAfterAssignment() {
	buyer := suite.createTestUser("buyer", models.RoleBuyer)
	suite.createTestProject(buyer.ID, models.ProjectStatusAssigned)

	body, err := json.Marshal(map[string]any{"title": "New title"})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodPut, "/api/projects/1", body, buyer)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.UpdateProject(c)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestListProjects_SolverSeesOpen() {
	buyer := suite.createTestUser("buyer", models.RoleBuyer)
	solver := suite.createTestUser("solver", models.RoleProblemSolver)
	suite.createTestProject(buyer.ID, models.ProjectStatusOpen)
	suite.createTestProject(buyer.ID, models.ProjectStatusCompleted)

	c, w := suite.createAuthContext(http.MethodGet, "/api/projects", nil, solver)
	suite.handler.ListProjects(c)

	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Projects []dto.ProjectDTO `json:"projects"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response.Projects, 1)
	suite.Equal(models.ProjectStatusOpen, response.Projects[0].Status)
}

func (suite *ProjectHandlerTestSuite) TestDeleteProject() {
	buyer := suite.createTestUser("buyer", models.RoleBuyer)
	solver := suite.createTestUser("solver", models.RoleProblemSolver)
	project := suite.createTestProject(buyer.ID, models.ProjectStatusOpen)
	suite.createTestRequest(project.ID, solver.ID)

	c, w := suite.createAuthContext(http.MethodDelete, "/api/projects/1", nil, buyer)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.DeleteProject(c)

	suite.Equal(http.StatusOK, w.Code)

	var projects int64
	suite.Require().NoError(suite.db.Model(&models.Project{}).Count(&projects).Error)
	suite.Zero(projects)

	var requests int64
	suite.Require().NoError(suite.db.Model(&models.Request{}).Count(&requests).Error)
	suite.Zero(requests)
}

// TestProjectHandlerTestSuite runs the test suite
func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
