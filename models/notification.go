package models

import "time"

type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ToEmail     string    `gorm:"size:191;not null;index" json:"to_email"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	ActionRoute string    `gorm:"size:191" json:"action_route"`
	IsRead      bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time `gorm:"index" json:"time"`
}

func (Notification) TableName() string {
	return "notifications"
}
