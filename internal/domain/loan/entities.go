package loan

import (
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusRefused   Status = "refused"
	StatusReturned  Status = "returned"
	StatusCancelled Status = "cancelled"
	StatusOverdue   Status = "overdue"
)

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	switch s {
	case StatusRefused, StatusReturned, StatusCancelled:
		return true
	}
	return false
}

// Borrowed reports whether the item is currently in the borrower's hands.
// A stored overdue loan counts: the item is still out.
func (s Status) Borrowed() bool {
	return s == StatusActive || s == StatusOverdue
}

// Open reports whether s blocks a new loan on the same listing.
func (s Status) Open() bool {
	return s == StatusPending || s.Borrowed()
}

type Loan struct {
	ID         uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID     string `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	ListingID  string `gorm:"size:32;index:idx_loans_listing" json:"listing_id"`
	LenderID   string `gorm:"size:32;index:idx_loans_lender" json:"lender_id"`
	BorrowerID string `gorm:"size:32;index:idx_loans_borrower" json:"borrower_id"`
	Status     Status `gorm:"type:enum('pending','active','refused','returned','cancelled','overdue');default:'pending'" json:"status"`

	// ActiveListingID mirrors ListingID while Status is open and is NULLed on
	// terminal transitions. The unique index is what actually enforces the
	// one-open-loan-per-listing invariant under concurrent creates.
	ActiveListingID *string `gorm:"size:32;column:active_listing_id;uniqueIndex:ux_loans_active_listing" json:"-"`

	StartDate          time.Time  `gorm:"column:start_date" json:"start_date"`
	ExpectedReturnDate time.Time  `gorm:"column:expected_return_date" json:"expected_return_date"`
	ActualReturnDate   *time.Time `gorm:"column:actual_return_date" json:"actual_return_date,omitempty"`
	Notes              string     `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// OverdueAt reports whether the loan is past its expected return at the given
// instant. Overdue is derived at read time; StatusOverdue is only ever stored
// through the generic update path.
func (l *Loan) OverdueAt(now time.Time) bool {
	return l.Status == StatusActive && now.After(l.ExpectedReturnDate)
}

// EffectiveStatus is what callers see: a stored active loan past its expected
// return reads as overdue.
func (l *Loan) EffectiveStatus(now time.Time) Status {
	if l.OverdueAt(now) {
		return StatusOverdue
	}
	return l.Status
}

// Role of a user on this loan, used by the transition guards.
type Role int

const (
	RoleNone Role = iota
	RoleLender
	RoleBorrower
)

func (l *Loan) RoleOf(userID string) Role {
	switch userID {
	case l.LenderID:
		return RoleLender
	case l.BorrowerID:
		return RoleBorrower
	}
	return RoleNone
}

// edge is one permitted transition and the roles allowed to drive it.
type edge struct {
	from, to Status
	lender   bool
	borrower bool
}

// transitions is the single source of truth for the state machine. Every
// mutation path (approve, refuse, cancel, return, generic update) consults
// this table and nothing else.
var transitions = []edge{
	{from: StatusPending, to: StatusActive, lender: true},
	{from: StatusPending, to: StatusRefused, lender: true},
	{from: StatusActive, to: StatusReturned, borrower: true},
	{from: StatusOverdue, to: StatusReturned, borrower: true},
	{from: StatusActive, to: StatusCancelled, lender: true},
	{from: StatusOverdue, to: StatusCancelled, lender: true},
	{from: StatusActive, to: StatusOverdue, lender: true, borrower: true},
}

// CheckTransition validates the edge from the loan's stored status to target
// for the given actor. It returns ErrInvalidOperation when the edge does not
// exist and ErrForbidden when it exists but the actor's role may not drive it.
func (l *Loan) CheckTransition(target Status, actorID string) error {
	role := l.RoleOf(actorID)
	if role == RoleNone {
		return ErrForbidden
	}
	for _, e := range transitions {
		if e.from != l.Status || e.to != target {
			continue
		}
		if (role == RoleLender && e.lender) || (role == RoleBorrower && e.borrower) {
			return nil
		}
		return ErrForbidden
	}
	return ErrInvalidOperation
}
