package models

import "time"

const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

type Submission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TaskID      uint   `gorm:"not null;index" json:"task_id"`
	TaskTitle   string `gorm:"size:200" json:"task_title"`
	// PayableAmount is copied from the task when the work is submitted.
	PayableAmount int64      `gorm:"not null" json:"payable_amount"`
	WorkerEmail   string     `gorm:"size:191;not null;index" json:"worker_email"`
	WorkerName    string     `gorm:"size:100" json:"worker_name"`
	BuyerEmail    string     `gorm:"size:191;not null;index" json:"buyer_email"`
	BuyerName     string     `gorm:"size:100" json:"buyer_name"`
	Details       string     `gorm:"type:text" json:"submission_details"`
	Status        string     `gorm:"size:16;not null;default:'pending';index" json:"status"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time  `json:"submitted_date"`
	UpdatedAt     time.Time  `json:"-"`
}

func (Submission) TableName() string {
	return "submissions"
}
