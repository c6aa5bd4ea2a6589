package dto

import (
	"time"

	"github.com/solvemarket/marketplace-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID           uint64          `json:"id"`
	Username     string          `json:"username"`
	Role         models.UserRole `json:"role"`
	Bio          string          `json:"bio,omitempty"`
	Skills       string          `json:"skills,omitempty"`
	Experience   string          `json:"experience,omitempty"`
	PortfolioURL string          `json:"portfolio_url,omitempty"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID               uint64               `json:"id"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	Budget           float64              `json:"budget"`
	Status           models.ProjectStatus `json:"status"`
	BuyerID          uint64               `json:"buyer_id"`
	AssignedSolverID *uint64              `json:"assigned_solver_id"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Buyer            *UserDTO             `json:"buyer,omitempty"`
	AssignedSolver   *UserDTO             `json:"assigned_solver,omitempty"`
}

// RequestDTO represents a solver's bid in API responses
type RequestDTO struct {
	ID        uint64               `json:"id"`
	ProjectID uint64               `json:"project_id"`
	SolverID  uint64               `json:"solver_id"`
	Message   string               `json:"message"`
	Status    models.RequestStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	Solver    *UserDTO             `json:"solver,omitempty"`
	Project   *ProjectDTO          `json:"project,omitempty"`
}

// SubmissionDTO represents a deliverable in API responses
type SubmissionDTO struct {
	ID        uint64                  `json:"id"`
	TaskID    uint64                  `json:"task_id"`
	SolverID  uint64                  `json:"solver_id"`
	FileName  string                  `json:"file_name"`
	FileSize  int64                   `json:"file_size"`
	Note      string                  `json:"note,omitempty"`
	Status    models.SubmissionStatus `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	ProjectID   uint64            `json:"project_id"`
	CreatorID   uint64            `json:"creator_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Submission  *SubmissionDTO    `json:"submission,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Username:     user.Username,
		Role:         user.Role,
		Bio:          user.Bio,
		Skills:       user.Skills,
		Experience:   user.Experience,
		PortfolioURL: user.PortfolioURL,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:               project.ID,
		Title:            project.Title,
		Description:      project.Description,
		Budget:           project.Budget,
		Status:           project.Status,
		BuyerID:          project.BuyerID,
		AssignedSolverID: project.AssignedSolverID,
		CreatedAt:        project.CreatedAt,
		UpdatedAt:        project.UpdatedAt,
	}

	// Include relations only if preloaded
	if project.Buyer.ID != 0 {
		buyer := ToUserDTO(project.Buyer)
		dto.Buyer = &buyer
	}
	if project.AssignedSolver != nil && project.AssignedSolver.ID != 0 {
		solver := ToUserDTO(*project.AssignedSolver)
		dto.AssignedSolver = &solver
	}

	return dto
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}

// ToRequestDTO converts a Request model to RequestDTO
func ToRequestDTO(request models.Request) RequestDTO {
	dto := RequestDTO{
		ID:        request.ID,
		ProjectID: request.ProjectID,
		SolverID:  request.SolverID,
		Message:   request.Message,
		Status:    request.Status,
		CreatedAt: request.CreatedAt,
	}

	if request.Solver.ID != 0 {
		solver := ToUserDTO(request.Solver)
		dto.Solver = &solver
	}
	if request.Project.ID != 0 {
		project := ToProjectDTO(request.Project)
		dto.Project = &project
	}

	return dto
}

// ToRequestDTOs converts a slice of requests
func ToRequestDTOs(requests []models.Request) []RequestDTO {
	dtos := make([]RequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = ToRequestDTO(r)
	}
	return dtos
}

// ToSubmissionDTO converts a Submission model to SubmissionDTO
func ToSubmissionDTO(submission models.Submission) SubmissionDTO {
	return SubmissionDTO{
		ID:        submission.ID,
		TaskID:    submission.TaskID,
		SolverID:  submission.SolverID,
		FileName:  submission.FileName,
		FileSize:  submission.FileSize,
		Note:      submission.Note,
		Status:    submission.Status,
		CreatedAt: submission.CreatedAt,
		UpdatedAt: submission.UpdatedAt,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		CreatorID:   task.CreatorID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Submission != nil && task.Submission.ID != 0 {
		submission := ToSubmissionDTO(*task.Submission)
		dto.Submission = &submission
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}
