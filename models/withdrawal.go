package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

type Withdrawal struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	WorkerID         uint            `gorm:"not null;index" json:"worker_id"`
	WorkerEmail      string          `gorm:"size:191;not null;index" json:"worker_email"`
	WorkerName       string          `gorm:"size:100" json:"worker_name"`
	WithdrawalCoin   int64           `gorm:"not null" json:"withdrawal_coin"`
	WithdrawalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"withdrawal_amount"`
	PaymentSystem    string          `gorm:"size:50;not null" json:"payment_system"`
	AccountNumber    string          `gorm:"size:100;not null" json:"account_number"`
	Status           string          `gorm:"size:16;not null;default:'pending';index" json:"status"`
	ProcessedAt      *time.Time      `json:"processed_at,omitempty"`
	CreatedAt        time.Time       `json:"withdraw_date"`
	UpdatedAt        time.Time       `json:"-"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
