package mysql

import (
	"context"
	"errors"

	listingDomain "mouthpiece-market/internal/domain/listing"

	"gorm.io/gorm"
)

type ListingRepository struct{ db *gorm.DB }

func NewListingRepository(db *gorm.DB) *ListingRepository { return &ListingRepository{db: db} }

func (r *ListingRepository) GetByListingID(ctx context.Context, listingID string) (*listingDomain.Listing, error) {
	var out listingDomain.Listing
	res := r.db.WithContext(ctx).Where("listing_id = ?", listingID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, listingDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *ListingRepository) SetStatus(ctx context.Context, listingID string, status listingDomain.Status) error {
	res := r.db.WithContext(ctx).Model(&listingDomain.Listing{}).
		Where("listing_id = ?", listingID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return listingDomain.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, listingID string) error {
	res := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Delete(&listingDomain.Listing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return listingDomain.ErrNotFound
	}
	return nil
}
