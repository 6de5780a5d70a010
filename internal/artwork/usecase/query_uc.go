package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/artmarket/artwork-service/internal/artwork/domain"
)

// ListingCache holds the raw approved-gallery records. Signed URLs are never
// cached since they expire.
type ListingCache interface {
	GetApproved(ctx context.Context) ([]*domain.Listing, error)
	SetApproved(ctx context.Context, listings []*domain.Listing) error
}

// QueryUsecase serves the two listing reads: the public approved gallery and
// an owner's own listings. Records are enriched with signed image URLs
// concurrently; order follows the store's return order.
type QueryUsecase struct {
	repo    domain.ListingRepository
	storage domain.Storage
	cache   ListingCache
	signTTL time.Duration
	logger  *zap.Logger
}

func NewQueryUsecase(repo domain.ListingRepository, storage domain.Storage, cache ListingCache, signTTL time.Duration, logger *zap.Logger) *QueryUsecase {
	return &QueryUsecase{repo: repo, storage: storage, cache: cache, signTTL: signTTL, logger: logger}
}

func (uc *QueryUsecase) ListApproved(ctx context.Context) ([]domain.DisplayListing, error) {
	if cached := uc.cachedApproved(ctx); cached != nil {
		return uc.enrich(ctx, cached), nil
	}

	all, err := uc.repo.FindByFilter(ctx, domain.Filter{})
	if err != nil {
		uc.logger.Error("query: listing fetch failed", zap.Error(err))
		return nil, &domain.ListError{Cause: err}
	}

	approved := make([]*domain.Listing, 0, len(all))
	for _, l := range all {
		if l.Status == domain.StatusApproved {
			approved = append(approved, l)
		}
	}

	if uc.cache != nil {
		if err := uc.cache.SetApproved(ctx, approved); err != nil {
			uc.logger.Warn("query: cache set failed", zap.Error(err))
		}
	}

	return uc.enrich(ctx, approved), nil
}

func (uc *QueryUsecase) ListOwned(ctx context.Context, ownerID string) ([]domain.DisplayListing, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	owned, err := uc.repo.FindByFilter(ctx, domain.Filter{OwnerID: ownerID})
	if err != nil {
		uc.logger.Error("query: owned listing fetch failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, &domain.ListError{Cause: err}
	}

	return uc.enrich(ctx, owned), nil
}

func (uc *QueryUsecase) cachedApproved(ctx context.Context) []*domain.Listing {
	if uc.cache == nil {
		return nil
	}
	cached, err := uc.cache.GetApproved(ctx)
	if err != nil {
		uc.logger.Warn("query: cache get failed", zap.Error(err))
		return nil
	}
	return cached
}

// enrich resolves signed image URLs for all listings concurrently and joins
// before returning. A failed sign leaves that entry without a URL; flagged
// listings are never signed, their image stays hidden.
func (uc *QueryUsecase) enrich(ctx context.Context, listings []*domain.Listing) []domain.DisplayListing {
	out := make([]domain.DisplayListing, len(listings))

	var g errgroup.Group
	for i, listing := range listings {
		out[i].Listing = *listing
		if listing.ImageKey == "" || listing.Status == domain.StatusFlagged {
			continue
		}
		g.Go(func() error {
			url, err := uc.storage.SignedURL(ctx, listing.ImageKey, uc.signTTL)
			if err != nil {
				signErr := &domain.SignError{Key: listing.ImageKey, Cause: err}
				uc.logger.Warn("query: enrichment failed",
					zap.String("listing_id", listing.ListingID), zap.Error(signErr))
				return nil
			}
			out[i].SignedURL = url
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures degrade per item

	return out
}
