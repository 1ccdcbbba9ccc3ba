package listing

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("listing not found")
	ErrNotOwner = errors.New("not the listing owner")
)

type Status string

const (
	StatusActive  Status = "active"
	StatusPaused  Status = "paused"
	StatusSold    Status = "sold"
	StatusDeleted Status = "deleted"
	StatusLoaned  Status = "loaned"
)

// Listing is the loan engine's slice of the listing directory: ownership for
// authorization, the loan flags, and enough descriptive fields for
// notification text. Only Status is ever mutated from here.
type Listing struct {
	ID         uint64 `gorm:"primaryKey;column:id" json:"-"`
	ListingID  string `gorm:"size:32;uniqueIndex:ux_listings_listing_id" json:"listing_id"`
	OwnerID    string `gorm:"size:32;index:idx_listings_owner" json:"owner_id"`
	Title      string `gorm:"size:255" json:"title"`
	Status     Status `gorm:"type:enum('active','paused','sold','deleted','loaned');default:'active'" json:"status"`
	OpenToLoan bool   `gorm:"column:open_to_loan;default:false" json:"open_to_loan"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Listing) TableName() string { return "listings" }
