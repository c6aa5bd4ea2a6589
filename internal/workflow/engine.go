// Package workflow holds the marketplace's decision core: the authorization
// guard and the status-transition engine for projects, requests, tasks and
// submissions. Everything here is pure. Callers load current entity state,
// ask for a decision, and persist the returned changes in one transaction.
package workflow

import "github.com/solvemarket/marketplace-api/internal/models"

// projectTransitions is the full legal project state machine. Completion has
// no outgoing edges; assignments are never removed and projects never reopen.
var projectTransitions = map[models.ProjectStatus][]models.ProjectStatus{
	models.ProjectStatusOpen:       {models.ProjectStatusAssigned},
	models.ProjectStatusAssigned:   {models.ProjectStatusInProgress},
	models.ProjectStatusInProgress: {models.ProjectStatusCompleted},
	models.ProjectStatusCompleted:  {},
}

// solverTaskTransitions: the assigned solver moves a task freely between the
// three working states. completed and rejected are terminal for everyone.
var solverTaskTransitions = map[models.TaskStatus][]models.TaskStatus{
	models.TaskStatusPending:    {models.TaskStatusInProgress, models.TaskStatusSubmitted},
	models.TaskStatusInProgress: {models.TaskStatusPending, models.TaskStatusSubmitted},
	models.TaskStatusSubmitted:  {models.TaskStatusPending, models.TaskStatusInProgress},
	models.TaskStatusCompleted:  {},
	models.TaskStatusRejected:   {},
}

// buyerTaskTransitions: the buyer only ever settles a task.
var buyerTaskTransitions = map[models.TaskStatus][]models.TaskStatus{
	models.TaskStatusPending:    {models.TaskStatusCompleted, models.TaskStatusRejected},
	models.TaskStatusInProgress: {models.TaskStatusCompleted, models.TaskStatusRejected},
	models.TaskStatusSubmitted:  {models.TaskStatusCompleted, models.TaskStatusRejected},
	models.TaskStatusCompleted:  {},
	models.TaskStatusRejected:   {},
}

func contains(allowed []models.TaskStatus, s models.TaskStatus) bool {
	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}

// ProjectCanTransition reports whether a project may move between two statuses.
func ProjectCanTransition(from, to models.ProjectStatus) bool {
	for _, next := range projectTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DecideRequest validates a solver's bid on a project. existing is the
// solver's prior request for the project, if any; the caller must still rely
// on the store's unique index for the insert itself.
func DecideRequest(project models.Project, solverID uint64, existing *models.Request, message string) (models.Request, error) {
	if project.Status != models.ProjectStatusOpen {
		return models.Request{}, InvalidState("project is %s, requests are only accepted while it is open", project.Status)
	}
	if existing != nil {
		return models.Request{}, Conflict("a request for this project already exists")
	}
	return models.Request{
		ProjectID: project.ID,
		SolverID:  solverID,
		Message:   message,
		Status:    models.RequestStatusPending,
	}, nil
}

// Assignment is the batch of changes produced by accepting one request:
// the project transition plus the accept/reject split over all requests.
// It must be persisted all-or-nothing.
type Assignment struct {
	ProjectStatus      models.ProjectStatus
	AssignedSolverID   uint64
	AcceptedRequestID  uint64
	RejectedRequestIDs []uint64
}

// DecideAssignment picks the winning request and rejects every sibling.
func DecideAssignment(project models.Project, solverID uint64, requests []models.Request) (Assignment, error) {
	if project.Status != models.ProjectStatusOpen {
		return Assignment{}, InvalidState("project is %s, a solver can only be assigned while it is open", project.Status)
	}

	assignment := Assignment{
		ProjectStatus:    models.ProjectStatusAssigned,
		AssignedSolverID: solverID,
	}
	for _, req := range requests {
		if req.SolverID == solverID {
			assignment.AcceptedRequestID = req.ID
		} else {
			assignment.RejectedRequestIDs = append(assignment.RejectedRequestIDs, req.ID)
		}
	}
	if assignment.AcceptedRequestID == 0 {
		return Assignment{}, NotFound("no request from solver %d for this project", solverID)
	}
	return assignment, nil
}

// TaskCreation is a new task plus the project status it implies.
type TaskCreation struct {
	Task          models.Task
	ProjectStatus models.ProjectStatus
}

// DecideTaskCreation validates a new task. The first task moves the project
// from assigned to in_progress: real work has started.
func DecideTaskCreation(project models.Project, creatorID uint64, title, description string) (TaskCreation, error) {
	if project.AssignedSolverID == nil || *project.AssignedSolverID != creatorID {
		return TaskCreation{}, Forbidden("tasks can only be created by the assigned solver")
	}
	if project.Status == models.ProjectStatusCompleted {
		return TaskCreation{}, InvalidState("project is already completed")
	}

	creation := TaskCreation{
		Task: models.Task{
			ProjectID:   project.ID,
			CreatorID:   creatorID,
			Title:       title,
			Description: description,
			Status:      models.TaskStatusPending,
		},
		ProjectStatus: project.Status,
	}
	if project.Status == models.ProjectStatusAssigned {
		creation.ProjectStatus = models.ProjectStatusInProgress
	}
	return creation, nil
}

// DecideTaskStatus checks a direct status change against the per-role
// transition tables. Illegal transitions are rejected, never ignored.
func DecideTaskStatus(task models.Task, project models.Project, actor models.User, next models.TaskStatus) error {
	var table map[models.TaskStatus][]models.TaskStatus
	switch {
	case project.AssignedSolverID != nil && *project.AssignedSolverID == actor.ID:
		table = solverTaskTransitions
	case project.BuyerID == actor.ID:
		table = buyerTaskTransitions
	default:
		return Forbidden("only the buyer or the assigned solver can change task status")
	}

	allowed, ok := table[task.Status]
	if !ok {
		return InvalidState("unknown task status %q", task.Status)
	}
	if !contains(allowed, next) {
		return InvalidState("task cannot move from %s to %s", task.Status, next)
	}
	return nil
}

// SubmissionChange describes how a deliverable lands on a task. When Replaces
// is non-nil the existing row is updated in place and the caller must release
// the old blob after the transaction commits.
type SubmissionChange struct {
	Submission models.Submission
	Replaces   *models.Submission
	TaskStatus models.TaskStatus
}

// DecideSubmission validates a deliverable upload. The presence of a file is
// the authoritative completion signal, so the task is forced to submitted
// whatever its prior working state was.
func DecideSubmission(task models.Task, project models.Project, solverID uint64, file models.Submission, existing *models.Submission) (SubmissionChange, error) {
	if project.AssignedSolverID == nil || *project.AssignedSolverID != solverID {
		return SubmissionChange{}, Forbidden("only the assigned solver can submit work")
	}
	if task.Status == models.TaskStatusCompleted || task.Status == models.TaskStatusRejected {
		return SubmissionChange{}, InvalidState("task is already %s", task.Status)
	}

	change := SubmissionChange{
		Submission: models.Submission{
			TaskID:   task.ID,
			SolverID: solverID,
			FileName: file.FileName,
			FilePath: file.FilePath,
			FileSize: file.FileSize,
			Note:     file.Note,
			Status:   models.SubmissionStatusPending,
		},
		TaskStatus: models.TaskStatusSubmitted,
	}
	if existing != nil {
		change.Submission.ID = existing.ID
		change.Replaces = existing
	}
	return change, nil
}

// Review is the settled state after a buyer's verdict. ProjectStatus is nil
// unless accepting this submission completed the whole project.
type Review struct {
	SubmissionStatus models.SubmissionStatus
	TaskStatus       models.TaskStatus
	ProjectStatus    *models.ProjectStatus
}

// DecideReview applies a buyer's verdict on a submission. allTasks must be
// every task of the project, with the reviewed task's prospective status
// applied by this function, so the completion check sees the whole picture.
// A rejected task is terminal; the project stays in_progress with no retry
// path, matching the source system.
func DecideReview(submission models.Submission, task models.Task, project models.Project, buyerID uint64, verdict models.SubmissionStatus, allTasks []models.Task) (Review, error) {
	if project.BuyerID != buyerID {
		return Review{}, Forbidden("only the project owner can review submissions")
	}
	if verdict != models.SubmissionStatusAccepted && verdict != models.SubmissionStatusRejected {
		return Review{}, InvalidState("verdict must be accepted or rejected")
	}
	if submission.Status != models.SubmissionStatusPending {
		return Review{}, InvalidState("submission has already been %s", submission.Status)
	}
	if submission.TaskID != task.ID {
		return Review{}, NotFound("submission not found")
	}

	if verdict == models.SubmissionStatusRejected {
		return Review{
			SubmissionStatus: models.SubmissionStatusRejected,
			TaskStatus:       models.TaskStatusRejected,
		}, nil
	}

	review := Review{
		SubmissionStatus: models.SubmissionStatusAccepted,
		TaskStatus:       models.TaskStatusCompleted,
	}

	allDone := len(allTasks) > 0
	for _, t := range allTasks {
		status := t.Status
		if t.ID == task.ID {
			status = models.TaskStatusCompleted
		}
		if status != models.TaskStatusCompleted {
			allDone = false
			break
		}
	}
	if allDone && ProjectCanTransition(project.Status, models.ProjectStatusCompleted) {
		completed := models.ProjectStatusCompleted
		review.ProjectStatus = &completed
	}
	return review, nil
}
