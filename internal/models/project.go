package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusAssigned   ProjectStatus = "assigned"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

// Project is owned by exactly one buyer. AssignedSolverID is set exactly once,
// when a request is accepted; it is set if and only if Status != open.
type Project struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	Title            string         `gorm:"type:varchar(255);not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Budget           float64        `json:"budget"`
	Status           ProjectStatus  `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	BuyerID          uint64         `gorm:"not null;index" json:"buyer_id"`
	AssignedSolverID *uint64        `gorm:"index" json:"assigned_solver_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Buyer          User      `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	AssignedSolver *User     `gorm:"foreignKey:AssignedSolverID" json:"assigned_solver,omitempty"`
	Requests       []Request `gorm:"foreignKey:ProjectID" json:"requests,omitempty"`
	Tasks          []Task    `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
