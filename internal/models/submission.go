package models

import "time"

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusAccepted SubmissionStatus = "accepted"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// Submission is the deliverable for one task. The unique index on TaskID keeps
// it at most one per task; resubmission updates this row in place.
type Submission struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	TaskID    uint64           `gorm:"not null;uniqueIndex" json:"task_id"`
	SolverID  uint64           `gorm:"not null;index" json:"solver_id"`
	FileName  string           `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath  string           `gorm:"type:varchar(512);not null" json:"-"`
	FileSize  int64            `gorm:"not null" json:"file_size"`
	Note      string           `gorm:"type:text" json:"note"`
	Status    SubmissionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Relations
	Task   Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Solver User `gorm:"foreignKey:SolverID" json:"solver,omitempty"`
}
