package models

import "time"

// RevokedToken is the database fallback for access-token revocation when
// Redis is not configured.
type RevokedToken struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	RevokedAt time.Time `json:"revoked_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
