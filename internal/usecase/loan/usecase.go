package loan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	listingDomain "mouthpiece-market/internal/domain/listing"
	domain "mouthpiece-market/internal/domain/loan"
	"mouthpiece-market/internal/domain/notification"
	"mouthpiece-market/internal/domain/uow"
	userDomain "mouthpiece-market/internal/domain/user"
	"mouthpiece-market/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	loans      domain.Repository
	listings   listingDomain.Repository
	users      userDomain.Repository
	uow        uow.UnitOfWork
	dispatcher notification.Dispatcher
}

func NewUsecase(loans domain.Repository, listings listingDomain.Repository, users userDomain.Repository, tx uow.UnitOfWork, dispatcher notification.Dispatcher) *Usecase {
	return &Usecase{loans: loans, listings: listings, users: users, uow: tx, dispatcher: dispatcher}
}

// Create validates and persists a new pending loan request from borrowerID.
// The checks run in a fixed order so each failure mode maps to one distinct
// error.
func (u *Usecase) Create(ctx context.Context, borrowerID string, in CreateLoanInput) (*LoanDTO, error) {
	ls, err := u.listings.GetByListingID(ctx, in.ListingID)
	if err != nil {
		if errors.Is(err, listingDomain.ErrNotFound) {
			return nil, fmt.Errorf("listing %s: %w", in.ListingID, domain.ErrNotFound)
		}
		return nil, err
	}
	if !ls.OpenToLoan {
		return nil, fmt.Errorf("listing %s is not available for loan: %w", in.ListingID, domain.ErrInvalidOperation)
	}
	if ls.Status != listingDomain.StatusActive {
		return nil, fmt.Errorf("listing %s is not currently available: %w", in.ListingID, domain.ErrInvalidOperation)
	}
	if ls.OwnerID == borrowerID {
		return nil, fmt.Errorf("cannot loan your own item: %w", domain.ErrForbidden)
	}
	if existing, err := u.loans.GetOpenByListingID(ctx, in.ListingID); err == nil {
		return nil, fmt.Errorf("loan %s already open for listing %s: %w", existing.LoanID, in.ListingID, domain.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	now := time.Now().UTC()
	if in.StartDate.Before(now) {
		return nil, fmt.Errorf("start date must not be in the past: %w", domain.ErrInvalidInput)
	}
	if !in.ExpectedReturnDate.After(in.StartDate) {
		return nil, fmt.Errorf("expected return date must be after start date: %w", domain.ErrInvalidInput)
	}

	activeKey := in.ListingID
	l := &domain.Loan{
		LoanID:             id.NewID32(),
		ListingID:          in.ListingID,
		LenderID:           ls.OwnerID,
		BorrowerID:         borrowerID,
		Status:             domain.StatusPending,
		ActiveListingID:    &activeKey,
		StartDate:          in.StartDate.UTC(),
		ExpectedReturnDate: in.ExpectedReturnDate.UTC(),
		Notes:              in.Notes,
	}
	if err := u.loans.Create(ctx, l); err != nil {
		// the unique index on active_listing_id closes the window between the
		// existence check above and this insert
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("listing %s: %w", in.ListingID, domain.ErrConflict)
		}
		return nil, err
	}

	borrower, _ := u.users.GetByUserID(ctx, borrowerID)
	u.dispatch(ctx, ls.OwnerID, borrowerID, fmt.Sprintf(
		"%s requested to borrow %q from %s to %s. %s",
		displayName(borrower), ls.Title,
		l.StartDate.Format("2006-01-02"), l.ExpectedReturnDate.Format("2006-01-02"),
		l.Notes,
	), ls.ListingID)

	return u.toDTO(ctx, l), nil
}

// Approve moves a pending loan to active and flips the listing to loaned.
func (u *Usecase) Approve(ctx context.Context, loanID, actorID string) (*LoanDTO, error) {
	return u.transition(ctx, loanID, domain.StatusActive, actorID)
}

// Refuse declines a pending loan. The listing never left active, so it is not
// touched.
func (u *Usecase) Refuse(ctx context.Context, loanID, actorID string) (*LoanDTO, error) {
	return u.transition(ctx, loanID, domain.StatusRefused, actorID)
}

// Cancel ends an active loan early; lender only.
func (u *Usecase) Cancel(ctx context.Context, loanID, actorID string) (*LoanDTO, error) {
	return u.transition(ctx, loanID, domain.StatusCancelled, actorID)
}

// Return marks an active loan returned; borrower only.
func (u *Usecase) Return(ctx context.Context, loanID, actorID string) (*LoanDTO, error) {
	return u.transition(ctx, loanID, domain.StatusReturned, actorID)
}

// updatableStatuses are the targets the generic update may request.
var updatableStatuses = map[string]domain.Status{
	string(domain.StatusActive):    domain.StatusActive,
	string(domain.StatusReturned):  domain.StatusReturned,
	string(domain.StatusOverdue):   domain.StatusOverdue,
	string(domain.StatusCancelled): domain.StatusCancelled,
}

// Update is the generic path: optional status change (same guard table as the
// dedicated endpoints) and/or a notes update by either party.
func (u *Usecase) Update(ctx context.Context, loanID, actorID string, in UpdateLoanInput) (*LoanDTO, error) {
	if in.Status == nil && in.Notes == nil {
		return nil, fmt.Errorf("nothing to update: %w", domain.ErrInvalidInput)
	}
	var target *domain.Status
	if in.Status != nil {
		st, ok := updatableStatuses[*in.Status]
		if !ok {
			return nil, fmt.Errorf("status %q not settable: %w", *in.Status, domain.ErrInvalidInput)
		}
		target = &st
	}

	var out *domain.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.RoleOf(actorID) == domain.RoleNone {
			return domain.ErrForbidden
		}
		if target != nil {
			if err := applyTransition(ctx, r, l, *target, actorID); err != nil {
				return err
			}
		}
		if in.Notes != nil {
			l.Notes = *in.Notes
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	if target != nil {
		u.notifyTransition(ctx, out)
	}
	return u.toDTO(ctx, out), nil
}

// Get returns one loan; only its lender or borrower may see it.
func (u *Usecase) Get(ctx context.Context, loanID, actorID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if l.RoleOf(actorID) == domain.RoleNone {
		return nil, domain.ErrForbidden
	}
	return u.toDTO(ctx, l), nil
}

// transition runs one state-machine edge: guard check, loan write and listing
// status write in a single transaction, then a best-effort notification.
func (u *Usecase) transition(ctx context.Context, loanID string, target domain.Status, actorID string) (*LoanDTO, error) {
	var out *domain.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if err := applyTransition(ctx, r, l, target, actorID); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.notifyTransition(ctx, out)
	return u.toDTO(ctx, out), nil
}

// applyTransition mutates l in place and performs the paired listing-status
// write through the transaction-bound repos, so both commit or neither does.
func applyTransition(ctx context.Context, r uow.Repos, l *domain.Loan, target domain.Status, actorID string) error {
	if err := l.CheckTransition(target, actorID); err != nil {
		return err
	}
	l.Status = target
	switch target {
	case domain.StatusActive:
		if err := r.Listings.SetStatus(ctx, l.ListingID, listingDomain.StatusLoaned); err != nil {
			return err
		}
	case domain.StatusReturned:
		now := time.Now().UTC()
		l.ActualReturnDate = &now
		l.ActiveListingID = nil
		if err := r.Listings.SetStatus(ctx, l.ListingID, listingDomain.StatusActive); err != nil {
			return err
		}
	case domain.StatusCancelled:
		l.ActiveListingID = nil
		if err := r.Listings.SetStatus(ctx, l.ListingID, listingDomain.StatusActive); err != nil {
			return err
		}
	case domain.StatusRefused:
		// listing never left active
		l.ActiveListingID = nil
	case domain.StatusOverdue:
		// listing stays loaned, item is still out
	}
	return nil
}

// notifyTransition sends the post-commit notification for a completed
// transition.
func (u *Usecase) notifyTransition(ctx context.Context, l *domain.Loan) {
	if l == nil {
		return
	}
	var recipient, sender, verb string
	switch l.Status {
	case domain.StatusActive:
		recipient, sender, verb = l.BorrowerID, l.LenderID, "approved"
	case domain.StatusRefused:
		recipient, sender, verb = l.BorrowerID, l.LenderID, "refused"
	case domain.StatusCancelled:
		recipient, sender, verb = l.BorrowerID, l.LenderID, "cancelled"
	case domain.StatusReturned:
		recipient, sender, verb = l.LenderID, l.BorrowerID, "returned"
	default:
		return
	}
	title := l.ListingID
	if ls, err := u.listings.GetByListingID(ctx, l.ListingID); err == nil {
		title = ls.Title
	}
	actor, _ := u.users.GetByUserID(ctx, sender)
	u.dispatch(ctx, recipient, sender,
		fmt.Sprintf("%s %s the loan of %q", displayName(actor), verb, title),
		l.ListingID)
}

// dispatch is fire-and-forget: a failed notification is logged and never
// surfaces to the caller.
func (u *Usecase) dispatch(ctx context.Context, recipientID, senderID, message, listingID string) {
	if u.dispatcher == nil {
		return
	}
	if err := u.dispatcher.Notify(ctx, recipientID, senderID, message, listingID); err != nil {
		log.Printf("notify %s: %v", recipientID, err)
	}
}

func displayName(usr *userDomain.User) string {
	if usr == nil {
		return "someone"
	}
	if usr.Nickname != "" {
		return usr.Nickname
	}
	return usr.Name
}
