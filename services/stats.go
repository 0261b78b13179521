package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/einadid/microtask-server/models"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type AdminStats struct {
	TotalWorkers       int64           `json:"totalWorkers"`
	TotalBuyers        int64           `json:"totalBuyers"`
	TotalCoins         int64           `json:"totalCoins"`
	TotalPayments      decimal.Decimal `json:"totalPayments"`
	PendingWithdrawals int64           `json:"pendingWithdrawals"`
}

type BuyerStats struct {
	TotalTasks         int64           `json:"totalTasks"`
	PendingWorkers     int64           `json:"pendingWorkers"`
	TotalPayments      decimal.Decimal `json:"totalPayments"`
	PendingSubmissions int64           `json:"pendingSubmissions"`
}

type WorkerStats struct {
	TotalSubmissions   int64 `json:"totalSubmissions"`
	PendingSubmissions int64 `json:"pendingSubmissions"`
	TotalEarnings      int64 `json:"totalEarnings"`
}

func (s *StatsService) Admin() (AdminStats, error) {
	var st AdminStats
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleWorker).Count(&st.TotalWorkers).Error; err != nil {
		return st, err
	}
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleBuyer).Count(&st.TotalBuyers).Error; err != nil {
		return st, err
	}
	if err := s.db.Model(&models.User{}).Select("COALESCE(SUM(coin), 0)").Scan(&st.TotalCoins).Error; err != nil {
		return st, err
	}
	total, err := s.sumPayments(s.db.Model(&models.Payment{}))
	if err != nil {
		return st, err
	}
	st.TotalPayments = total
	err = s.db.Model(&models.Withdrawal{}).Where("status = ?", models.WithdrawalPending).Count(&st.PendingWithdrawals).Error
	return st, err
}

func (s *StatsService) Buyer(email string) (BuyerStats, error) {
	email = normalizeEmail(email)
	var st BuyerStats
	if err := s.db.Model(&models.Task{}).Where("buyer_email = ?", email).Count(&st.TotalTasks).Error; err != nil {
		return st, err
	}
	if err := s.db.Model(&models.Task{}).Where("buyer_email = ?", email).
		Select("COALESCE(SUM(required_workers), 0)").Scan(&st.PendingWorkers).Error; err != nil {
		return st, err
	}
	total, err := s.sumPayments(s.db.Model(&models.Payment{}).Where("buyer_email = ?", email))
	if err != nil {
		return st, err
	}
	st.TotalPayments = total
	err = s.db.Model(&models.Submission{}).
		Where("buyer_email = ? AND status = ?", email, models.SubmissionPending).
		Count(&st.PendingSubmissions).Error
	return st, err
}

func (s *StatsService) Worker(email string) (WorkerStats, error) {
	email = normalizeEmail(email)
	var st WorkerStats
	if err := s.db.Model(&models.Submission{}).Where("worker_email = ?", email).Count(&st.TotalSubmissions).Error; err != nil {
		return st, err
	}
	if err := s.db.Model(&models.Submission{}).
		Where("worker_email = ? AND status = ?", email, models.SubmissionPending).
		Count(&st.PendingSubmissions).Error; err != nil {
		return st, err
	}
	err := s.db.Model(&models.Submission{}).
		Where("worker_email = ? AND status = ?", email, models.SubmissionApproved).
		Select("COALESCE(SUM(payable_amount), 0)").Scan(&st.TotalEarnings).Error
	return st, err
}

// sumPayments sums amounts in Go so the result is exact on every driver.
func (s *StatsService) sumPayments(q *gorm.DB) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := q.Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}
