package models

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// Request is a solver's bid to work on an open project. The composite unique
// index closes the race window between the duplicate pre-check and the insert.
type Request struct {
	ID        uint64        `gorm:"primarykey" json:"id"`
	ProjectID uint64        `gorm:"not null;uniqueIndex:idx_requests_project_solver" json:"project_id"`
	SolverID  uint64        `gorm:"not null;uniqueIndex:idx_requests_project_solver" json:"solver_id"`
	Message   string        `gorm:"type:text" json:"message"`
	Status    RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Solver  User    `gorm:"foreignKey:SolverID" json:"solver,omitempty"`
}
