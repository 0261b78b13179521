package models

import "time"

const (
	FlowCredit = "credit"
	FlowDebit  = "debit"
)

// Coin transaction types.
const (
	TxSignupBonus      = "signup_bonus"
	TxTaskReserve      = "task_reserve"
	TxTaskRefund       = "task_refund"
	TxSubmissionPayout = "submission_payout"
	TxWithdrawal       = "withdrawal"
	TxCoinPurchase     = "coin_purchase"
	TxAdminAdjust      = "admin_adjust"
)

// CoinTransaction journals one change to a user's coin balance.
type CoinTransaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Email     string    `gorm:"size:191;not null;index" json:"email"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Flow      string    `gorm:"size:8;not null" json:"flow"`
	Type      string    `gorm:"size:32;not null;index" json:"type"`
	Reference string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"reference"`
	Message   *string   `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (CoinTransaction) TableName() string {
	return "coin_transactions"
}
