package domain

import (
	"context"
	"io"
	"time"
)

type ListingRepository interface {
	// Create persists a listing, replacing any existing record with the same
	// (OwnerID, ListingID) pair so idempotent re-submissions do not duplicate.
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, ownerID, listingID string) (*Listing, error)
	// FindByFilter returns listings in store order.
	FindByFilter(ctx context.Context, filter Filter) ([]*Listing, error)
	UpdateModeration(ctx context.Context, ownerID, listingID string, status Status, labels []ModerationLabel) error
}

type Storage interface {
	// Upload stores the object and returns the key it was stored under.
	Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error)
	// SignedURL returns a time-limited read URL for an existing object.
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
