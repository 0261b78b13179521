package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an append-only record of a coin purchase confirmed by the
// payment gateway.
type Payment struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	TransactionID  string          `gorm:"type:varchar(191);not null;uniqueIndex" json:"transaction_id"`
	BuyerID        uint            `gorm:"not null;index" json:"buyer_id"`
	BuyerEmail     string          `gorm:"size:191;not null;index" json:"buyer_email"`
	BuyerName      string          `gorm:"size:100" json:"buyer_name"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	CoinsPurchased int64           `gorm:"not null" json:"coins_purchased"`
	CreatedAt      time.Time       `json:"payment_date"`
}

func (Payment) TableName() string {
	return "payments"
}
