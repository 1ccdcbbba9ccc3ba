package loan

import (
	"context"
	"time"
)

// Stats are the aggregate counts exposed per user. Overdue is computed
// against the "now" passed to the repository call, not wall clock.
type Stats struct {
	Given           int64 `json:"loans_given"`
	ActiveGiven     int64 `json:"active_loans_given"`
	Received        int64 `json:"loans_received"`
	ActiveReceived  int64 `json:"active_loans_received"`
	OverdueReceived int64 `json:"overdue_loans_received"`
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row for the rest of the transaction on
	// backends that support it.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// GetOpenByListingID returns the pending/active/overdue loan for a
	// listing, if any.
	GetOpenByListingID(ctx context.Context, listingID string) (*Loan, error)
	DeleteByListingID(ctx context.Context, listingID string) error

	// Query layer: filtered views, newest first.
	ListIncoming(ctx context.Context, lenderID string) ([]Loan, error)
	ListOutgoing(ctx context.Context, borrowerID string) ([]Loan, error)
	ListCurrent(ctx context.Context, userID string) ([]Loan, error)
	ListHistory(ctx context.Context, userID string) ([]Loan, error)
	StatsByUser(ctx context.Context, userID string, now time.Time) (*Stats, error)
}
