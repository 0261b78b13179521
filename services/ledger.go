package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/einadid/microtask-server/metrics"
	"github.com/einadid/microtask-server/models"
)

var referencePrefix = map[string]string{
	models.TxSignupBonus:      "BON",
	models.TxTaskReserve:      "TSK",
	models.TxTaskRefund:       "RFD",
	models.TxSubmissionPayout: "PAY",
	models.TxWithdrawal:       "WDR",
	models.TxCoinPurchase:     "BUY",
	models.TxAdminAdjust:      "ADJ",
}

// ledger moves coins inside one database transaction and journals each move.
type ledger struct {
	tx    *gorm.DB
	moves []models.CoinTransaction
}

// inLedger runs fn in a transaction. Metrics are recorded only for
// committed work.
func inLedger(db *gorm.DB, operation string, fn func(l *ledger) error) error {
	var l *ledger
	err := db.Transaction(func(tx *gorm.DB) error {
		l = &ledger{tx: tx}
		return fn(l)
	})
	metrics.ObserveOperation(operation, err)
	if err == nil {
		for _, m := range l.moves {
			metrics.CoinsMovedTotal.WithLabelValues(m.Flow, m.Type).Add(float64(m.Amount))
		}
	}
	return err
}

func (l *ledger) credit(user models.User, amount int64, txType, message string) error {
	if amount < 0 {
		return validationf("amount must not be negative")
	}
	if amount == 0 {
		return nil
	}
	res := l.tx.Model(&models.User{}).
		Where("id = ?", user.ID).
		UpdateColumn("coin", gorm.Expr("coin + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("user")
	}
	return l.journal(user, amount, models.FlowCredit, txType, message)
}

// debit fails with ErrInsufficientCoins instead of letting the balance go negative.
func (l *ledger) debit(user models.User, amount int64, txType, message string) error {
	if amount < 0 {
		return validationf("amount must not be negative")
	}
	if amount == 0 {
		return nil
	}
	res := l.tx.Model(&models.User{}).
		Where("id = ? AND coin >= ?", user.ID, amount).
		UpdateColumn("coin", gorm.Expr("coin - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientCoins
	}
	return l.journal(user, amount, models.FlowDebit, txType, message)
}

func (l *ledger) journal(user models.User, amount int64, flow, txType, message string) error {
	row := models.CoinTransaction{
		UserID:    user.ID,
		Email:     user.Email,
		Amount:    amount,
		Flow:      flow,
		Type:      txType,
		Reference: NewReference(referencePrefix[txType]),
	}
	if message != "" {
		row.Message = &message
	}
	if err := l.tx.Create(&row).Error; err != nil {
		return err
	}
	l.moves = append(l.moves, row)
	return nil
}

// notify appends a notification in the same transaction as the change it reports.
func (l *ledger) notify(to, message, route string) error {
	return l.tx.Create(&models.Notification{
		ToEmail:     to,
		Message:     message,
		ActionRoute: route,
	}).Error
}

func findUserByEmail(db *gorm.DB, email string) (models.User, error) {
	var u models.User
	err := db.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return u, notFound("user")
	}
	return u, err
}

func findUserByID(db *gorm.DB, id uint) (models.User, error) {
	var u models.User
	err := db.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return u, notFound("user")
	}
	return u, err
}
