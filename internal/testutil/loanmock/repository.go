package loanmock

import (
	"context"
	"time"

	domain "mouthpiece-market/internal/domain/loan"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying loan.Repository. Fill in the
// fields a test needs; unfilled getters report not-found, unfilled writers
// succeed.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetOpenByListingIDFn   func(ctx context.Context, listingID string) (*domain.Loan, error)
	DeleteByListingIDFn    func(ctx context.Context, listingID string) error
	ListIncomingFn         func(ctx context.Context, lenderID string) ([]domain.Loan, error)
	ListOutgoingFn         func(ctx context.Context, borrowerID string) ([]domain.Loan, error)
	ListCurrentFn          func(ctx context.Context, userID string) ([]domain.Loan, error)
	ListHistoryFn          func(ctx context.Context, userID string) ([]domain.Loan, error)
	StatsByUserFn          func(ctx context.Context, userID string, now time.Time) (*domain.Stats, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetOpenByListingID(ctx context.Context, listingID string) (*domain.Loan, error) {
	if m.GetOpenByListingIDFn != nil {
		return m.GetOpenByListingIDFn(ctx, listingID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) DeleteByListingID(ctx context.Context, listingID string) error {
	if m.DeleteByListingIDFn != nil {
		return m.DeleteByListingIDFn(ctx, listingID)
	}
	return nil
}

func (m *Repo) ListIncoming(ctx context.Context, lenderID string) ([]domain.Loan, error) {
	if m.ListIncomingFn != nil {
		return m.ListIncomingFn(ctx, lenderID)
	}
	return nil, nil
}

func (m *Repo) ListOutgoing(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	if m.ListOutgoingFn != nil {
		return m.ListOutgoingFn(ctx, borrowerID)
	}
	return nil, nil
}

func (m *Repo) ListCurrent(ctx context.Context, userID string) ([]domain.Loan, error) {
	if m.ListCurrentFn != nil {
		return m.ListCurrentFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) ListHistory(ctx context.Context, userID string) ([]domain.Loan, error) {
	if m.ListHistoryFn != nil {
		return m.ListHistoryFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) StatsByUser(ctx context.Context, userID string, now time.Time) (*domain.Stats, error) {
	if m.StatsByUserFn != nil {
		return m.StatsByUserFn(ctx, userID, now)
	}
	return &domain.Stats{}, nil
}
