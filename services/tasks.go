package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/einadid/microtask-server/logger"
	"github.com/einadid/microtask-server/models"
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

type CreateTaskInput struct {
	Title           string
	Detail          string
	RequiredWorkers int64
	PayableAmount   int64
	CompletionDate  time.Time
	SubmissionInfo  string
	ImageURL        string
}

// Create reserves RequiredWorkers x PayableAmount from the buyer and creates
// the task in the same transaction.
func (s *TaskService) Create(buyer models.User, in CreateTaskInput) (models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Task{}, validationf("task_title is required")
	}
	if in.RequiredWorkers < 1 {
		return models.Task{}, validationf("required_workers must be at least 1")
	}
	if in.PayableAmount < 1 {
		return models.Task{}, validationf("payable_amount must be at least 1")
	}
	total := in.RequiredWorkers * in.PayableAmount
	if total/in.RequiredWorkers != in.PayableAmount {
		return models.Task{}, validationf("task total is too large")
	}

	task := models.Task{
		Title:           strings.TrimSpace(in.Title),
		Detail:          in.Detail,
		RequiredWorkers: in.RequiredWorkers,
		PayableAmount:   in.PayableAmount,
		CompletionDate:  in.CompletionDate,
		SubmissionInfo:  in.SubmissionInfo,
		ImageURL:        in.ImageURL,
		BuyerID:         buyer.ID,
		BuyerEmail:      buyer.Email,
		BuyerName:       buyer.Name,
		ReservedCoins:   total,
	}
	err := inLedger(s.db, "create_task", func(l *ledger) error {
		if err := l.debit(buyer, total, models.TxTaskReserve, "Reserved for task: "+task.Title); err != nil {
			return err
		}
		return l.tx.Create(&task).Error
	})
	if err != nil {
		return models.Task{}, err
	}
	logger.Info("task created", "id", task.ID, "buyer", buyer.Email, "reserved", total)
	return task, nil
}

func (s *TaskService) Get(id uint) (models.Task, error) {
	var t models.Task
	err := s.db.First(&t, id).Error
	if isNotFound(err) {
		return t, notFound("task")
	}
	return t, err
}

// Available lists tasks that still accept submissions, newest first.
func (s *TaskService) Available() ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Where("required_workers > 0").Order("created_at DESC").Order("id DESC").Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) ByBuyer(email string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Where("buyer_email = ?", normalizeEmail(email)).
		Order("completion_date DESC").Order("id DESC").
		Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) All() ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Order("created_at DESC").Order("id DESC").Find(&tasks).Error
	return tasks, err
}

type UpdateTaskInput struct {
	Title          *string
	Detail         *string
	SubmissionInfo *string
}

// Update edits the text fields of a task owned by buyer.
func (s *TaskService) Update(buyer models.User, id uint, in UpdateTaskInput) (models.Task, error) {
	task, err := s.Get(id)
	if err != nil {
		return task, err
	}
	if task.BuyerID != buyer.ID {
		return task, forbiddenf("task belongs to another buyer")
	}
	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return task, validationf("task_title must not be empty")
		}
		updates["title"] = title
	}
	if in.Detail != nil {
		updates["detail"] = *in.Detail
	}
	if in.SubmissionInfo != nil {
		updates["submission_info"] = *in.SubmissionInfo
	}
	if len(updates) == 0 {
		return task, validationf("nothing to update")
	}
	if err := s.db.Model(&task).Updates(updates).Error; err != nil {
		return task, err
	}
	return s.Get(id)
}

// Delete removes a task owned by buyer and refunds its unspent escrow.
// Deleting a task that no longer exists succeeds.
func (s *TaskService) Delete(buyer models.User, id uint) (refunded int64, err error) {
	task, err := s.Get(id)
	if KindOf(err) == KindNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if task.BuyerID != buyer.ID {
		return 0, forbiddenf("task belongs to another buyer")
	}
	return s.remove(task, "delete_task")
}

// AdminDelete removes any task. The buyer still receives the unspent escrow.
func (s *TaskService) AdminDelete(id uint) (int64, error) {
	task, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	return s.remove(task, "admin_delete_task")
}

func (s *TaskService) remove(task models.Task, operation string) (int64, error) {
	var refunded int64
	err := inLedger(s.db, operation, func(l *ledger) error {
		// re-read inside the transaction so a concurrent approval's escrow draw is seen
		var current models.Task
		if err := l.tx.First(&current, task.ID).Error; err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		res := l.tx.Delete(&models.Task{}, current.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var pending []models.Submission
		if err := l.tx.Where("task_id = ? AND status = ?", current.ID, models.SubmissionPending).Find(&pending).Error; err != nil {
			return err
		}
		now := time.Now()
		for _, sub := range pending {
			up := l.tx.Model(&models.Submission{}).
				Where("id = ? AND status = ?", sub.ID, models.SubmissionPending).
				Updates(map[string]interface{}{"status": models.SubmissionRejected, "reviewed_at": now})
			if up.Error != nil {
				return up.Error
			}
			if up.RowsAffected == 0 {
				continue
			}
			msg := fmt.Sprintf("Your submission for %s was rejected because the task was removed", current.Title)
			if err := l.notify(sub.WorkerEmail, msg, "/dashboard/my-submissions"); err != nil {
				return err
			}
		}

		if current.ReservedCoins == 0 {
			return nil
		}
		owner, err := findUserByID(l.tx, current.BuyerID)
		if KindOf(err) == KindNotFound {
			logger.Warn("task owner missing, escrow not refunded", "task", current.ID, "coins", current.ReservedCoins)
			return nil
		}
		if err != nil {
			return err
		}
		if err := l.credit(owner, current.ReservedCoins, models.TxTaskRefund, "Refund for task: "+current.Title); err != nil {
			return err
		}
		refunded = current.ReservedCoins
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Info("task deleted", "id", task.ID, "refunded", refunded, "operation", operation)
	return refunded, nil
}
