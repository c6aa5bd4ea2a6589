package workflow

import "github.com/solvemarket/marketplace-api/internal/models"

// Action enumerates everything an actor can ask the system to do.
type Action string

const (
	ActionPromoteUser      Action = "promote_user"
	ActionListUsers        Action = "list_users"
	ActionUpdateProfile    Action = "update_profile"
	ActionCreateProject    Action = "create_project"
	ActionViewProject      Action = "view_project"
	ActionUpdateProject    Action = "update_project"
	ActionDeleteProject    Action = "delete_project"
	ActionAssignSolver     Action = "assign_solver"
	ActionListRequests     Action = "list_requests"
	ActionCreateRequest    Action = "create_request"
	ActionCreateTask       Action = "create_task"
	ActionViewTasks        Action = "view_tasks"
	ActionUpdateTaskStatus Action = "update_task_status"
	ActionSubmitWork       Action = "submit_work"
	ActionDownloadWork     Action = "download_work"
	ActionReviewSubmission Action = "review_submission"
)

// Target carries whatever entities the action operates on. Fields that do not
// apply to an action are left nil.
type Target struct {
	User    *models.User
	Project *models.Project
	Task    *models.Task
}

// Authorize checks actor role and ownership/assignment for an action before the
// engine looks at entity states. State legality is the engine's job; the guard
// only answers who may attempt what. Denials about resources the actor cannot
// see come back as not-found so existence is not leaked.
func Authorize(actor models.User, action Action, target Target) error {
	switch action {
	case ActionPromoteUser:
		if actor.Role != models.RoleAdmin {
			return Forbidden("only admins can change user roles")
		}
		if target.User == nil {
			return NotFound("user not found")
		}
		if target.User.ID == actor.ID {
			return Forbidden("admins cannot change their own role")
		}
		return nil

	case ActionListUsers:
		if actor.Role != models.RoleAdmin {
			return Forbidden("only admins can list users")
		}
		return nil

	case ActionUpdateProfile:
		if target.User == nil {
			return NotFound("user not found")
		}
		if target.User.ID != actor.ID {
			return Forbidden("profiles can only be edited by their owner")
		}
		return nil

	case ActionCreateProject:
		if actor.Role != models.RoleBuyer {
			return Forbidden("only buyers can create projects")
		}
		return nil

	case ActionViewProject:
		project := target.Project
		if project == nil {
			return NotFound("project not found")
		}
		if actor.Role == models.RoleAdmin {
			return nil
		}
		if project.BuyerID == actor.ID {
			return nil
		}
		if actor.Role == models.RoleProblemSolver {
			// Solvers can browse projects to decide whether to bid; this
			// also covers the assigned solver.
			return nil
		}
		return NotFound("project not found")

	case ActionUpdateProject, ActionDeleteProject, ActionAssignSolver, ActionListRequests, ActionReviewSubmission:
		project := target.Project
		if project == nil {
			return NotFound("project not found")
		}
		if actor.Role != models.RoleBuyer {
			return Forbidden("only buyers can manage projects")
		}
		if project.BuyerID != actor.ID {
			return NotFound("project not found")
		}
		return nil

	case ActionCreateRequest:
		if actor.Role != models.RoleProblemSolver {
			return Forbidden("only problem solvers can request projects")
		}
		if target.Project == nil {
			return NotFound("project not found")
		}
		return nil

	case ActionCreateTask, ActionSubmitWork:
		project := target.Project
		if project == nil {
			return NotFound("project not found")
		}
		if actor.Role != models.RoleProblemSolver {
			return Forbidden("only problem solvers can work on projects")
		}
		if project.AssignedSolverID == nil || *project.AssignedSolverID != actor.ID {
			return Forbidden("only the assigned solver can work on this project")
		}
		return nil

	case ActionUpdateTaskStatus:
		project := target.Project
		if project == nil || target.Task == nil {
			return NotFound("task not found")
		}
		isOwner := project.BuyerID == actor.ID
		isAssigned := project.AssignedSolverID != nil && *project.AssignedSolverID == actor.ID
		if !isOwner && !isAssigned {
			return NotFound("task not found")
		}
		return nil

	case ActionViewTasks:
		project := target.Project
		if project == nil {
			return NotFound("project not found")
		}
		if actor.Role == models.RoleAdmin || project.BuyerID == actor.ID {
			return nil
		}
		if project.AssignedSolverID != nil && *project.AssignedSolverID == actor.ID {
			return nil
		}
		return NotFound("project not found")

	case ActionDownloadWork:
		project := target.Project
		if project == nil {
			return NotFound("submission not found")
		}
		if actor.Role == models.RoleAdmin || project.BuyerID == actor.ID {
			return nil
		}
		if project.AssignedSolverID != nil && *project.AssignedSolverID == actor.ID {
			return nil
		}
		return NotFound("submission not found")
	}

	return Forbidden("unknown action %q", action)
}
