package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/einadid/microtask-server/logger"
	"github.com/einadid/microtask-server/models"
)

type SubmissionService struct {
	db *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db}
}

// Submit records a pending submission, snapshotting the task's payable amount.
func (s *SubmissionService) Submit(worker models.User, taskID uint, details string) (models.Submission, error) {
	if strings.TrimSpace(details) == "" {
		return models.Submission{}, validationf("submission_details is required")
	}
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if isNotFound(err) {
			return models.Submission{}, notFound("task")
		}
		return models.Submission{}, err
	}
	if task.BuyerID == worker.ID {
		return models.Submission{}, forbiddenf("you can not submit to your own task")
	}
	if task.RequiredWorkers <= 0 || task.ReservedCoins < task.PayableAmount {
		return models.Submission{}, ErrNoSlotsLeft
	}

	sub := models.Submission{
		TaskID:        task.ID,
		TaskTitle:     task.Title,
		PayableAmount: task.PayableAmount,
		WorkerEmail:   worker.Email,
		WorkerName:    worker.Name,
		BuyerEmail:    task.BuyerEmail,
		BuyerName:     task.BuyerName,
		Details:       details,
		Status:        models.SubmissionPending,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return models.Submission{}, err
	}
	logger.Info("submission created", "id", sub.ID, "task", task.ID, "worker", worker.Email)
	return sub, nil
}

func (s *SubmissionService) Get(id uint) (models.Submission, error) {
	var sub models.Submission
	err := s.db.First(&sub, id).Error
	if isNotFound(err) {
		return sub, notFound("submission")
	}
	return sub, err
}

// Approve pays the worker from the task escrow and closes one slot. Only
// the first review of a submission has any effect.
func (s *SubmissionService) Approve(buyer models.User, id uint) (models.Submission, error) {
	sub, err := s.reviewable(buyer, id)
	if err != nil {
		return sub, err
	}
	now := time.Now()
	err = inLedger(s.db, "approve_submission", func(l *ledger) error {
		if err := transition(l.tx, sub.ID, models.SubmissionApproved, now); err != nil {
			return err
		}
		draw := l.tx.Model(&models.Task{}).
			Where("id = ? AND reserved_coins >= ?", sub.TaskID, sub.PayableAmount).
			UpdateColumn("reserved_coins", gorm.Expr("reserved_coins - ?", sub.PayableAmount))
		if draw.Error != nil {
			return draw.Error
		}
		if draw.RowsAffected == 0 {
			return businessf("task escrow does not cover this submission")
		}
		slot := l.tx.Model(&models.Task{}).
			Where("id = ? AND required_workers > 0", sub.TaskID).
			UpdateColumn("required_workers", gorm.Expr("required_workers - 1"))
		if slot.Error != nil {
			return slot.Error
		}

		worker, err := findUserByEmail(l.tx, sub.WorkerEmail)
		if err != nil {
			return err
		}
		if err := l.credit(worker, sub.PayableAmount, models.TxSubmissionPayout, "Payout for task: "+sub.TaskTitle); err != nil {
			return err
		}
		msg := fmt.Sprintf("You have earned %d coins from %s for completing %s", sub.PayableAmount, sub.BuyerName, sub.TaskTitle)
		return l.notify(sub.WorkerEmail, msg, "/dashboard/worker-home")
	})
	if err != nil {
		return sub, err
	}
	logger.Info("submission approved", "id", sub.ID, "worker", sub.WorkerEmail, "coins", sub.PayableAmount)
	sub.Status = models.SubmissionApproved
	sub.ReviewedAt = &now
	return sub, nil
}

// Reject returns the slot to the task. No coins move.
func (s *SubmissionService) Reject(buyer models.User, id uint) (models.Submission, error) {
	sub, err := s.reviewable(buyer, id)
	if err != nil {
		return sub, err
	}
	now := time.Now()
	err = inLedger(s.db, "reject_submission", func(l *ledger) error {
		if err := transition(l.tx, sub.ID, models.SubmissionRejected, now); err != nil {
			return err
		}
		if err := l.tx.Model(&models.Task{}).
			Where("id = ?", sub.TaskID).
			UpdateColumn("required_workers", gorm.Expr("required_workers + 1")).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("Your submission for %s was rejected by %s", sub.TaskTitle, sub.BuyerName)
		return l.notify(sub.WorkerEmail, msg, "/dashboard/my-submissions")
	})
	if err != nil {
		return sub, err
	}
	logger.Info("submission rejected", "id", sub.ID, "worker", sub.WorkerEmail)
	sub.Status = models.SubmissionRejected
	sub.ReviewedAt = &now
	return sub, nil
}

func (s *SubmissionService) reviewable(buyer models.User, id uint) (models.Submission, error) {
	sub, err := s.Get(id)
	if err != nil {
		return sub, err
	}
	if sub.BuyerEmail != buyer.Email {
		return sub, forbiddenf("submission belongs to another buyer")
	}
	if sub.Status != models.SubmissionPending {
		return sub, ErrSubmissionNotPending
	}
	return sub, nil
}

// transition moves a submission out of pending. A lost race reports
// ErrSubmissionNotPending.
func transition(tx *gorm.DB, id uint, status string, at time.Time) error {
	res := tx.Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, models.SubmissionPending).
		Updates(map[string]interface{}{"status": status, "reviewed_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSubmissionNotPending
	}
	return nil
}

type Page struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalRows  int64 `json:"total_rows"`
	TotalPages int   `json:"total_pages"`
}

func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return Page{Page: page, Limit: limit}
}

func (p *Page) setTotal(total int64) {
	p.TotalRows = total
	p.TotalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// ByWorker pages through a worker's submissions, newest first.
func (s *SubmissionService) ByWorker(email string, page Page) ([]models.Submission, Page, error) {
	email = normalizeEmail(email)
	var total int64
	if err := s.db.Model(&models.Submission{}).Where("worker_email = ?", email).Count(&total).Error; err != nil {
		return nil, page, err
	}
	page.setTotal(total)
	var subs []models.Submission
	err := s.db.Where("worker_email = ?", email).Order("created_at DESC").Order("id DESC").
		Offset((page.Page - 1) * page.Limit).
		Limit(page.Limit).
		Find(&subs).Error
	return subs, page, err
}

func (s *SubmissionService) ApprovedByWorker(email string) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.Where("worker_email = ? AND status = ?", normalizeEmail(email), models.SubmissionApproved).
		Order("reviewed_at DESC").Order("id DESC").
		Find(&subs).Error
	return subs, err
}

func (s *SubmissionService) PendingForBuyer(email string) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.Where("buyer_email = ? AND status = ?", normalizeEmail(email), models.SubmissionPending).
		Order("created_at ASC").Order("id ASC").
		Find(&subs).Error
	return subs, err
}
