package mysql

import (
	"context"
	"time"

	notificationDomain "mouthpiece-market/internal/domain/notification"
	"mouthpiece-market/pkg/id"

	"gorm.io/gorm"
)

// NotificationRepository is both the Dispatcher (write side, best-effort from
// the caller's point of view) and the feed Repository (read side).
type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Notify(ctx context.Context, recipientID, senderID, message, listingID string) error {
	n := &notificationDomain.Notification{
		NotificationID: id.NewID32(),
		RecipientID:    recipientID,
		SenderID:       senderID,
		ListingID:      listingID,
		Message:        message,
	}
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]notificationDomain.Notification, error) {
	var out []notificationDomain.Notification
	res := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, recipientID string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&notificationDomain.Notification{}).
		Where("notification_id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("read_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notificationDomain.ErrNotFound
	}
	return nil
}
