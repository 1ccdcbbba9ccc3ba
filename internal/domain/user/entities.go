package user

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// User is the read-only slice of the user directory the loan subsystem needs
// for authorization payloads and notification text.
type User struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID    string    `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	Name      string    `gorm:"size:255" json:"name"`
	Nickname  string    `gorm:"size:64" json:"nickname"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*User, error)
}
