package models

import "time"

const (
	RoleWorker = "worker"
	RoleBuyer  = "buyer"
	RoleAdmin  = "admin"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:191;uniqueIndex;not null" json:"email"`
	PhotoURL  string    `gorm:"size:512" json:"photo_url"`
	Role      string    `gorm:"size:16;not null;default:'worker';index" json:"role"`
	Coin      int64     `gorm:"not null;default:0" json:"coin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// ValidRole reports whether role is one of the platform roles.
func ValidRole(role string) bool {
	switch role {
	case RoleWorker, RoleBuyer, RoleAdmin:
		return true
	}
	return false
}
