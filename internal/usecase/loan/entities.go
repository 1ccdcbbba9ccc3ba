package loan

import "time"

type CreateLoanInput struct {
	ListingID          string    `json:"listing_id"`
	StartDate          time.Time `json:"start_date"`
	ExpectedReturnDate time.Time `json:"expected_return_date"`
	Notes              string    `json:"notes"`
}

// UpdateLoanInput is the generic update: either field may be omitted. A
// status change goes through the same transition table as the dedicated
// endpoints.
type UpdateLoanInput struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

type ListingSummary struct {
	ListingID string `json:"listing_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
}

type UserSummary struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
}

type LoanDTO struct {
	LoanID             string          `json:"loan_id"`
	Status             string          `json:"status"`
	StartDate          time.Time       `json:"start_date"`
	ExpectedReturnDate time.Time       `json:"expected_return_date"`
	ActualReturnDate   *time.Time      `json:"actual_return_date,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	Listing            *ListingSummary `json:"listing,omitempty"`
	Lender             *UserSummary    `json:"lender,omitempty"`
	Borrower           *UserSummary    `json:"borrower,omitempty"`
}
