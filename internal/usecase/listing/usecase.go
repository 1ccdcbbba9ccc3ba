package listing

import (
	"context"

	domain "mouthpiece-market/internal/domain/listing"
	"mouthpiece-market/internal/domain/uow"
)

type Usecase struct {
	listings domain.Repository
	uow      uow.UnitOfWork
}

func NewUsecase(listings domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{listings: listings, uow: tx}
}

// Delete removes a listing and cascades to every loan that references it, in
// one transaction, so no loan row can outlive its listing.
func (u *Usecase) Delete(ctx context.Context, listingID, actorID string) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ls, err := r.Listings.GetByListingID(ctx, listingID)
		if err != nil {
			return err
		}
		if ls.OwnerID != actorID {
			return domain.ErrNotOwner
		}
		if err := r.Loans.DeleteByListingID(ctx, listingID); err != nil {
			return err
		}
		return r.Listings.Delete(ctx, listingID)
	})
}
