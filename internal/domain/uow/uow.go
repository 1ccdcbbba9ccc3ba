package uow

import (
	"context"

	"mouthpiece-market/internal/domain/listing"
	"mouthpiece-market/internal/domain/loan"
)

// Repos bundles the repositories that participate in a loan transaction.
type Repos struct {
	Loans    loan.Repository
	Listings listing.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn with repos bound to one transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first (on backends that support row
	// locks), then passes it in. Every state transition goes through here so
	// the loan and listing writes commit or roll back together.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
