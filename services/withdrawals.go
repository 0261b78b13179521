package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/einadid/microtask-server/logger"
	"github.com/einadid/microtask-server/models"
)

type WithdrawalService struct {
	db *gorm.DB
}

func NewWithdrawalService(db *gorm.DB) *WithdrawalService {
	return &WithdrawalService{db: db}
}

type WithdrawalInput struct {
	Coin          int64
	PaymentSystem string
	AccountNumber string
}

// CoinsToDollars converts coins at the given rate, rounded to cents.
func CoinsToDollars(coins, coinsPerDollar int64) decimal.Decimal {
	if coinsPerDollar <= 0 {
		coinsPerDollar = models.DefaultSetting().CoinsPerDollar
	}
	return decimal.NewFromInt(coins).Div(decimal.NewFromInt(coinsPerDollar)).Round(2)
}

// Request records a pending withdrawal. The balance is only checked here;
// the debit happens at approval.
func (s *WithdrawalService) Request(worker models.User, in WithdrawalInput) (models.Withdrawal, error) {
	if strings.TrimSpace(in.PaymentSystem) == "" || strings.TrimSpace(in.AccountNumber) == "" {
		return models.Withdrawal{}, validationf("payment_system and account_number are required")
	}
	setting, err := models.LoadSetting(s.db)
	if err != nil {
		return models.Withdrawal{}, err
	}
	if in.Coin < setting.MinWithdrawCoin {
		return models.Withdrawal{}, businessf("minimum withdrawal is %d coins", setting.MinWithdrawCoin)
	}

	current, err := findUserByID(s.db, worker.ID)
	if err != nil {
		return models.Withdrawal{}, err
	}
	if in.Coin > current.Coin {
		return models.Withdrawal{}, ErrInsufficientCoins
	}

	wd := models.Withdrawal{
		WorkerID:         current.ID,
		WorkerEmail:      current.Email,
		WorkerName:       current.Name,
		WithdrawalCoin:   in.Coin,
		WithdrawalAmount: CoinsToDollars(in.Coin, setting.CoinsPerDollar),
		PaymentSystem:    strings.TrimSpace(in.PaymentSystem),
		AccountNumber:    strings.TrimSpace(in.AccountNumber),
		Status:           models.WithdrawalPending,
	}
	if err := s.db.Create(&wd).Error; err != nil {
		return models.Withdrawal{}, err
	}
	logger.Info("withdrawal requested", "id", wd.ID, "worker", wd.WorkerEmail, "coin", wd.WithdrawalCoin)
	return wd, nil
}

func (s *WithdrawalService) Get(id uint) (models.Withdrawal, error) {
	var wd models.Withdrawal
	err := s.db.First(&wd, id).Error
	if isNotFound(err) {
		return wd, notFound("withdrawal")
	}
	return wd, err
}

// Approve debits the worker and marks the withdrawal approved. If the
// balance no longer covers it, nothing changes.
func (s *WithdrawalService) Approve(id uint) (models.Withdrawal, error) {
	wd, err := s.Get(id)
	if err != nil {
		return wd, err
	}
	if wd.Status != models.WithdrawalPending {
		return wd, ErrWithdrawalNotPending
	}
	now := time.Now()
	err = inLedger(s.db, "approve_withdrawal", func(l *ledger) error {
		if err := s.close(l.tx, wd.ID, models.WithdrawalApproved, now); err != nil {
			return err
		}
		worker, err := findUserByID(l.tx, wd.WorkerID)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Withdrawal via %s to %s", wd.PaymentSystem, wd.AccountNumber)
		if err := l.debit(worker, wd.WithdrawalCoin, models.TxWithdrawal, msg); err != nil {
			return err
		}
		note := fmt.Sprintf("Your withdrawal of %d coins ($%s) has been approved", wd.WithdrawalCoin, wd.WithdrawalAmount.StringFixed(2))
		return l.notify(wd.WorkerEmail, note, "/dashboard/withdrawals")
	})
	if err != nil {
		return wd, err
	}
	logger.Info("withdrawal approved", "id", wd.ID, "worker", wd.WorkerEmail, "coin", wd.WithdrawalCoin)
	wd.Status = models.WithdrawalApproved
	wd.ProcessedAt = &now
	return wd, nil
}

func (s *WithdrawalService) Reject(id uint) (models.Withdrawal, error) {
	wd, err := s.Get(id)
	if err != nil {
		return wd, err
	}
	if wd.Status != models.WithdrawalPending {
		return wd, ErrWithdrawalNotPending
	}
	now := time.Now()
	err = inLedger(s.db, "reject_withdrawal", func(l *ledger) error {
		if err := s.close(l.tx, wd.ID, models.WithdrawalRejected, now); err != nil {
			return err
		}
		note := fmt.Sprintf("Your withdrawal of %d coins has been rejected", wd.WithdrawalCoin)
		return l.notify(wd.WorkerEmail, note, "/dashboard/withdrawals")
	})
	if err != nil {
		return wd, err
	}
	logger.Info("withdrawal rejected", "id", wd.ID, "worker", wd.WorkerEmail)
	wd.Status = models.WithdrawalRejected
	wd.ProcessedAt = &now
	return wd, nil
}

func (s *WithdrawalService) close(tx *gorm.DB, id uint, status string, at time.Time) error {
	res := tx.Model(&models.Withdrawal{}).
		Where("id = ? AND status = ?", id, models.WithdrawalPending).
		Updates(map[string]interface{}{"status": status, "processed_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWithdrawalNotPending
	}
	return nil
}

func (s *WithdrawalService) Pending() ([]models.Withdrawal, error) {
	var rows []models.Withdrawal
	err := s.db.Where("status = ?", models.WithdrawalPending).Order("created_at ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (s *WithdrawalService) ByWorker(email string) ([]models.Withdrawal, error) {
	var rows []models.Withdrawal
	err := s.db.Where("worker_email = ?", normalizeEmail(email)).Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}
