package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin         UserRole = "admin"
	RoleBuyer         UserRole = "buyer"
	RoleProblemSolver UserRole = "problem_solver"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'problem_solver'" json:"role"`
	Bio          string         `gorm:"type:text" json:"bio"`
	Skills       string         `gorm:"type:text" json:"skills"`
	Experience   string         `gorm:"type:text" json:"experience"`
	PortfolioURL string         `gorm:"type:varchar(512)" json:"portfolio_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Projects    []Project    `gorm:"foreignKey:BuyerID" json:"-"`
	Requests    []Request    `gorm:"foreignKey:SolverID" json:"-"`
	Submissions []Submission `gorm:"foreignKey:SolverID" json:"-"`
}
