package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/einadid/microtask-server/metrics"
	"github.com/einadid/microtask-server/models"
)

const notificationPageSize = 50

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// ForUser returns the latest notifications of email, newest first.
func (s *NotificationService) ForUser(email string) ([]models.Notification, error) {
	var rows []models.Notification
	err := s.db.Where("to_email = ?", normalizeEmail(email)).
		Order("created_at DESC").Order("id DESC").
		Limit(notificationPageSize).
		Find(&rows).Error
	return rows, err
}

func (s *NotificationService) UnreadCount(email string) (int64, error) {
	var n int64
	err := s.db.Model(&models.Notification{}).
		Where("to_email = ? AND is_read = ?", normalizeEmail(email), false).
		Count(&n).Error
	return n, err
}

// MarkAllRead flags every unread notification of email and returns how many changed.
func (s *NotificationService) MarkAllRead(email string) (int64, error) {
	res := s.db.Model(&models.Notification{}).
		Where("to_email = ? AND is_read = ?", normalizeEmail(email), false).
		UpdateColumn("is_read", true)
	return res.RowsAffected, res.Error
}

// Delete removes one notification owned by email.
func (s *NotificationService) Delete(email string, id uint) error {
	var n models.Notification
	if err := s.db.First(&n, id).Error; err != nil {
		if isNotFound(err) {
			return notFound("notification")
		}
		return err
	}
	if n.ToEmail != normalizeEmail(email) {
		return forbiddenf("notification belongs to another user")
	}
	return s.db.Delete(&n).Error
}

// PruneRead deletes read notifications created before now minus retention.
func (s *NotificationService) PruneRead(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res := s.db.Where("is_read = ? AND created_at < ?", true, cutoff).Delete(&models.Notification{})
	if res.Error != nil {
		return 0, res.Error
	}
	metrics.NotificationsPrunedTotal.Add(float64(res.RowsAffected))
	return res.RowsAffected, nil
}
