package mysql

import (
	"context"
	"time"

	loanDomain "mouthpiece-market/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// statuses that block a new loan on the same listing
var openStatuses = []loanDomain.Status{
	loanDomain.StatusPending,
	loanDomain.StatusActive,
	loanDomain.StatusOverdue,
}

// statuses counted as "currently borrowed"
var borrowedStatuses = []loanDomain.Status{
	loanDomain.StatusActive,
	loanDomain.StatusOverdue,
}

var closedStatuses = []loanDomain.Status{
	loanDomain.StatusReturned,
	loanDomain.StatusRefused,
	loanDomain.StatusCancelled,
	loanDomain.StatusOverdue,
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	tx := r.db.WithContext(ctx)
	// sqlite (tests) has no SELECT ... FOR UPDATE; transactions serialize there anyway
	if tx.Dialector.Name() == "mysql" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loanDomain.Loan
	res := tx.Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetOpenByListingID(ctx context.Context, listingID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("listing_id = ? AND status IN ?", listingID, openStatuses).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

// DeleteByListingID hard-deletes every loan of a listing. Only the listing
// deletion cascade calls this; loans are never deleted any other way.
func (r *LoanRepository) DeleteByListingID(ctx context.Context, listingID string) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("listing_id = ?", listingID).
		Delete(&loanDomain.Loan{}).Error
}

func (r *LoanRepository) ListIncoming(ctx context.Context, lenderID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("lender_id = ? AND status = ?", lenderID, loanDomain.StatusPending).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListOutgoing(ctx context.Context, borrowerID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower_id = ? AND status = ?", borrowerID, loanDomain.StatusPending).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListCurrent(ctx context.Context, userID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("(lender_id = ? OR borrower_id = ?) AND status = ?", userID, userID, loanDomain.StatusActive).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListHistory(ctx context.Context, userID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("(lender_id = ? OR borrower_id = ?) AND status IN ?", userID, userID, closedStatuses).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) StatsByUser(ctx context.Context, userID string, now time.Time) (*loanDomain.Stats, error) {
	db := r.db.WithContext(ctx).Model(&loanDomain.Loan{})
	var s loanDomain.Stats

	if err := db.Session(&gorm.Session{}).
		Where("lender_id = ?", userID).
		Count(&s.Given).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("lender_id = ? AND status IN ?", userID, borrowedStatuses).
		Count(&s.ActiveGiven).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("borrower_id = ?", userID).
		Count(&s.Received).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("borrower_id = ? AND status IN ?", userID, borrowedStatuses).
		Count(&s.ActiveReceived).Error; err != nil {
		return nil, err
	}
	// overdue = stored overdue, or active past the expected return
	if err := db.Session(&gorm.Session{}).
		Where("borrower_id = ? AND (status = ? OR (status = ? AND expected_return_date < ?))",
			userID, loanDomain.StatusOverdue, loanDomain.StatusActive, now).
		Count(&s.OverdueReceived).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
