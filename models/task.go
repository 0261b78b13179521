package models

import "time"

type Task struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null" json:"task_title"`
	Detail          string    `gorm:"type:text" json:"task_detail"`
	RequiredWorkers int64     `gorm:"not null;default:0;index" json:"required_workers"`
	PayableAmount   int64     `gorm:"not null" json:"payable_amount"`
	CompletionDate  time.Time `json:"completion_date"`
	SubmissionInfo  string    `gorm:"type:text" json:"submission_info"`
	ImageURL        string    `gorm:"size:512" json:"task_image_url"`
	BuyerID         uint      `gorm:"not null;index" json:"buyer_id"`
	BuyerEmail      string    `gorm:"size:191;not null;index" json:"buyer_email"`
	BuyerName       string    `gorm:"size:100" json:"buyer_name"`
	// ReservedCoins is the escrow still held for this task: debited from the
	// buyer at creation, drawn down by approvals, refunded on deletion.
	ReservedCoins int64     `gorm:"not null;default:0" json:"reserved_coins"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}
