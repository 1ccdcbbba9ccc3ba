package listingmock

import (
	"context"

	domain "mouthpiece-market/internal/domain/listing"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying listing.Repository.
type Repo struct {
	GetByListingIDFn func(ctx context.Context, listingID string) (*domain.Listing, error)
	SetStatusFn      func(ctx context.Context, listingID string, status domain.Status) error
	DeleteFn         func(ctx context.Context, listingID string) error
}

func (m *Repo) GetByListingID(ctx context.Context, listingID string) (*domain.Listing, error) {
	if m.GetByListingIDFn != nil {
		return m.GetByListingIDFn(ctx, listingID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) SetStatus(ctx context.Context, listingID string, status domain.Status) error {
	if m.SetStatusFn != nil {
		return m.SetStatusFn(ctx, listingID, status)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, listingID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, listingID)
	}
	return nil
}
