package workflow

import (
	"testing"

	"github.com/solvemarket/marketplace-api/internal/models"
	"github.com/stretchr/testify/assert"
)

var (
	admin    = models.User{ID: 1, Role: models.RoleAdmin}
	buyer    = models.User{ID: 10, Role: models.RoleBuyer}
	otherBuy = models.User{ID: 11, Role: models.RoleBuyer}
	solver   = models.User{ID: 20, Role: models.RoleProblemSolver}
	rival    = models.User{ID: 21, Role: models.RoleProblemSolver}
)

func ownedProject() *models.Project {
	solverID := solver.ID
	return &models.Project{ID: 1, BuyerID: buyer.ID, Status: models.ProjectStatusInProgress, AssignedSolverID: &solverID}
}

func TestAuthorize_PromoteUser(t *testing.T) {
	target := &models.User{ID: 20, Role: models.RoleProblemSolver}

	assert.NoError(t, Authorize(admin, ActionPromoteUser, Target{User: target}))
	assert.True(t, IsKind(Authorize(buyer, ActionPromoteUser, Target{User: target}), KindForbidden))
	assert.True(t, IsKind(Authorize(solver, ActionPromoteUser, Target{User: target}), KindForbidden))

	// Admins never touch their own role.
	self := admin
	assert.True(t, IsKind(Authorize(admin, ActionPromoteUser, Target{User: &self}), KindForbidden))

	assert.True(t, IsKind(Authorize(admin, ActionPromoteUser, Target{}), KindNotFound))
}

func TestAuthorize_CreateProject(t *testing.T) {
	assert.NoError(t, Authorize(buyer, ActionCreateProject, Target{}))
	assert.True(t, IsKind(Authorize(solver, ActionCreateProject, Target{}), KindForbidden))
	assert.True(t, IsKind(Authorize(admin, ActionCreateProject, Target{}), KindForbidden))
}

func TestAuthorize_ProjectOwnership(t *testing.T) {
	project := ownedProject()

	for _, action := range []Action{ActionUpdateProject, ActionDeleteProject, ActionAssignSolver, ActionListRequests, ActionReviewSubmission} {
		assert.NoError(t, Authorize(buyer, action, Target{Project: project}), string(action))

		// A different buyer gets not-found, not forbidden: ownership is not leaked.
		assert.True(t, IsKind(Authorize(otherBuy, action, Target{Project: project}), KindNotFound), string(action))
		assert.True(t, IsKind(Authorize(solver, action, Target{Project: project}), KindForbidden), string(action))
	}
}

func TestAuthorize_ViewProject(t *testing.T) {
	project := ownedProject()

	assert.NoError(t, Authorize(buyer, ActionViewProject, Target{Project: project}))
	assert.NoError(t, Authorize(admin, ActionViewProject, Target{Project: project}))

	// Any solver may browse, assigned or not.
	assert.NoError(t, Authorize(solver, ActionViewProject, Target{Project: project}))
	assert.NoError(t, Authorize(rival, ActionViewProject, Target{Project: project}))

	assert.True(t, IsKind(Authorize(otherBuy, ActionViewProject, Target{Project: project}), KindNotFound))
	assert.True(t, IsKind(Authorize(buyer, ActionViewProject, Target{}), KindNotFound))
}

func TestAuthorize_CreateRequest(t *testing.T) {
	project := &models.Project{ID: 1, BuyerID: buyer.ID, Status: models.ProjectStatusOpen}

	assert.NoError(t, Authorize(solver, ActionCreateRequest, Target{Project: project}))
	assert.True(t, IsKind(Authorize(buyer, ActionCreateRequest, Target{Project: project}), KindForbidden))
	assert.True(t, IsKind(Authorize(solver, ActionCreateRequest, Target{}), KindNotFound))
}

func TestAuthorize_AssignedSolverWork(t *testing.T) {
	project := ownedProject()

	for _, action := range []Action{ActionCreateTask, ActionSubmitWork} {
		assert.NoError(t, Authorize(solver, action, Target{Project: project}), string(action))
		assert.True(t, IsKind(Authorize(rival, action, Target{Project: project}), KindForbidden), string(action))
		assert.True(t, IsKind(Authorize(buyer, action, Target{Project: project}), KindForbidden), string(action))
	}

	// No assignment yet: nobody can work.
	open := &models.Project{ID: 2, BuyerID: buyer.ID, Status: models.ProjectStatusOpen}
	assert.True(t, IsKind(Authorize(solver, ActionCreateTask, Target{Project: open}), KindForbidden))
}

func TestAuthorize_TaskVisibility(t *testing.T) {
	project := ownedProject()
	task := &models.Task{ID: 1, ProjectID: project.ID}

	assert.NoError(t, Authorize(buyer, ActionUpdateTaskStatus, Target{Project: project, Task: task}))
	assert.NoError(t, Authorize(solver, ActionUpdateTaskStatus, Target{Project: project, Task: task}))
	assert.True(t, IsKind(Authorize(rival, ActionUpdateTaskStatus, Target{Project: project, Task: task}), KindNotFound))

	assert.NoError(t, Authorize(buyer, ActionViewTasks, Target{Project: project}))
	assert.NoError(t, Authorize(solver, ActionViewTasks, Target{Project: project}))
	assert.NoError(t, Authorize(admin, ActionViewTasks, Target{Project: project}))
	assert.True(t, IsKind(Authorize(rival, ActionViewTasks, Target{Project: project}), KindNotFound))
}

func TestAuthorize_DownloadWork(t *testing.T) {
	project := ownedProject()

	assert.NoError(t, Authorize(buyer, ActionDownloadWork, Target{Project: project}))
	assert.NoError(t, Authorize(solver, ActionDownloadWork, Target{Project: project}))
	assert.NoError(t, Authorize(admin, ActionDownloadWork, Target{Project: project}))
	assert.True(t, IsKind(Authorize(rival, ActionDownloadWork, Target{Project: project}), KindNotFound))
}

func TestAuthorize_Profile(t *testing.T) {
	self := solver
	assert.NoError(t, Authorize(solver, ActionUpdateProfile, Target{User: &self}))

	other := rival
	assert.True(t, IsKind(Authorize(solver, ActionUpdateProfile, Target{User: &other}), KindForbidden))
}

func TestAuthorize_ListUsers(t *testing.T) {
	assert.NoError(t, Authorize(admin, ActionListUsers, Target{}))
	assert.True(t, IsKind(Authorize(buyer, ActionListUsers, Target{}), KindForbidden))
}
