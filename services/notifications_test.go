package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/einadid/microtask-server/models"
)

func TestNotifications_ReadFlow(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, db.Create(&models.Notification{ToEmail: "w@example.com", Message: msg}).Error)
	}
	require.NoError(t, db.Create(&models.Notification{ToEmail: "x@example.com", Message: "other"}).Error)

	list, err := svc.ForUser("w@example.com")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "three", list[0].Message)

	n, err := svc.UnreadCount("w@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	changed, err := svc.MarkAllRead("w@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), changed)
	n, err = svc.UnreadCount("w@example.com")
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = svc.UnreadCount("x@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, KindForbidden, KindOf(svc.Delete("x@example.com", list[0].ID)))
	require.NoError(t, svc.Delete("w@example.com", list[0].ID))
	assert.Equal(t, KindNotFound, KindOf(svc.Delete("w@example.com", list[0].ID)))
}

func TestPruneRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	old := time.Now().Add(-40 * 24 * time.Hour)
	require.NoError(t, db.Create(&models.Notification{ToEmail: "w@example.com", Message: "old read", IsRead: true, CreatedAt: old}).Error)
	require.NoError(t, db.Create(&models.Notification{ToEmail: "w@example.com", Message: "old unread", CreatedAt: old}).Error)
	require.NoError(t, db.Create(&models.Notification{ToEmail: "w@example.com", Message: "new read", IsRead: true}).Error)

	removed, err := svc.PruneRead(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	left, err := svc.ForUser("w@example.com")
	require.NoError(t, err)
	assert.Len(t, left, 2)
}
