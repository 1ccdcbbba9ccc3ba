package listing

import "context"

type Repository interface {
	GetByListingID(ctx context.Context, listingID string) (*Listing, error)
	// SetStatus writes only the status column.
	SetStatus(ctx context.Context, listingID string, status Status) error
	// Delete soft-deletes the listing row. Loan cleanup is the caller's job,
	// inside the same transaction.
	Delete(ctx context.Context, listingID string) error
}
