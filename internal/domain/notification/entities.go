package notification

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

type Notification struct {
	ID             uint64     `gorm:"primaryKey;column:id" json:"-"`
	NotificationID string     `gorm:"size:32;uniqueIndex:ux_notifications_notification_id" json:"notification_id"`
	RecipientID    string     `gorm:"size:32;index:idx_notifications_recipient" json:"recipient_id"`
	SenderID       string     `gorm:"size:32" json:"sender_id"`
	ListingID      string     `gorm:"size:32" json:"listing_id,omitempty"`
	Message        string     `gorm:"type:text" json:"message"`
	ReadAt         *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// Dispatcher delivers a notification to a user. Delivery is best-effort:
// callers log and swallow the error, it never fails the triggering operation.
type Dispatcher interface {
	Notify(ctx context.Context, recipientID, senderID, message, listingID string) error
}

// Repository is the read side for the in-app notification feed.
type Repository interface {
	ListByRecipient(ctx context.Context, recipientID string) ([]Notification, error)
	MarkRead(ctx context.Context, notificationID, recipientID string, at time.Time) error
}
