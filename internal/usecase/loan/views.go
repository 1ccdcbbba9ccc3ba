package loan

import (
	"context"
	"time"

	domain "mouthpiece-market/internal/domain/loan"
)

// The four read-side views. Each is a plain re-query of loan storage, newest
// first; nothing is cached.

// Incoming lists pending requests the user received as lender.
func (u *Usecase) Incoming(ctx context.Context, userID string) ([]LoanDTO, error) {
	loans, err := u.loans.ListIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.toDTOs(ctx, loans), nil
}

// Outgoing lists pending requests the user made as borrower.
func (u *Usecase) Outgoing(ctx context.Context, userID string) ([]LoanDTO, error) {
	loans, err := u.loans.ListOutgoing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.toDTOs(ctx, loans), nil
}

// Current lists loans in progress on either side. A stored-active loan past
// its expected return still lives here; its DTO status reads "overdue".
func (u *Usecase) Current(ctx context.Context, userID string) ([]LoanDTO, error) {
	loans, err := u.loans.ListCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.toDTOs(ctx, loans), nil
}

// History lists concluded loans on either side, plus any explicitly persisted
// overdue ones.
func (u *Usecase) History(ctx context.Context, userID string) ([]LoanDTO, error) {
	loans, err := u.loans.ListHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.toDTOs(ctx, loans), nil
}

// Stats returns aggregate counts for a user. Overdue is derived against the
// current clock, not written back.
func (u *Usecase) Stats(ctx context.Context, userID string) (*domain.Stats, error) {
	return u.loans.StatsByUser(ctx, userID, time.Now().UTC())
}

func (u *Usecase) toDTOs(ctx context.Context, loans []domain.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(loans))
	a := newAssembler(u)
	for i := range loans {
		out = append(out, *a.dto(ctx, &loans[i]))
	}
	return out
}

func (u *Usecase) toDTO(ctx context.Context, l *domain.Loan) *LoanDTO {
	return newAssembler(u).dto(ctx, l)
}

// assembler joins loans with their listing and party summaries, memoizing
// directory lookups across one call so a view of N loans between the same two
// users does not refetch per row.
type assembler struct {
	u        *Usecase
	listings map[string]*ListingSummary
	users    map[string]*UserSummary
}

func newAssembler(u *Usecase) *assembler {
	return &assembler{
		u:        u,
		listings: make(map[string]*ListingSummary),
		users:    make(map[string]*UserSummary),
	}
}

func (a *assembler) dto(ctx context.Context, l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:             l.LoanID,
		Status:             string(l.EffectiveStatus(time.Now().UTC())),
		StartDate:          l.StartDate,
		ExpectedReturnDate: l.ExpectedReturnDate,
		ActualReturnDate:   l.ActualReturnDate,
		Notes:              l.Notes,
		CreatedAt:          l.CreatedAt,
		Listing:            a.listing(ctx, l.ListingID),
		Lender:             a.user(ctx, l.LenderID),
		Borrower:           a.user(ctx, l.BorrowerID),
	}
}

func (a *assembler) listing(ctx context.Context, listingID string) *ListingSummary {
	if s, ok := a.listings[listingID]; ok {
		return s
	}
	ls, err := a.u.listings.GetByListingID(ctx, listingID)
	if err != nil {
		a.listings[listingID] = nil
		return nil
	}
	s := &ListingSummary{ListingID: ls.ListingID, Title: ls.Title, Status: string(ls.Status)}
	a.listings[listingID] = s
	return s
}

func (a *assembler) user(ctx context.Context, userID string) *UserSummary {
	if s, ok := a.users[userID]; ok {
		return s
	}
	usr, err := a.u.users.GetByUserID(ctx, userID)
	if err != nil {
		a.users[userID] = nil
		return nil
	}
	s := &UserSummary{UserID: usr.UserID, Name: usr.Name, Nickname: usr.Nickname}
	a.users[userID] = s
	return s
}
