package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artmarket/artwork-service/internal/artwork/domain"
)

func seedListings(repo *fakeRepo, listings ...*domain.Listing) {
	repo.listings = append(repo.listings, listings...)
}

func listing(owner, id string, status domain.Status, imageKey string) *domain.Listing {
	return &domain.Listing{
		OwnerID:   owner,
		ListingID: id,
		Title:     "Artwork " + id,
		ImageKey:  imageKey,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestListApprovedFiltersStatus(t *testing.T) {
	repo := &fakeRepo{}
	seedListings(repo,
		listing("o1", "l1", domain.StatusApproved, "uploads/o1/a.jpg"),
		listing("o1", "l2", domain.StatusPending, "uploads/o1/b.jpg"),
		listing("o2", "l3", domain.StatusApproved, "uploads/o2/c.jpg"),
		listing("o2", "l4", domain.StatusFlagged, "uploads/o2/d.jpg"),
	)
	uc := NewQueryUsecase(repo, newFakeStorage(), nil, time.Minute, zap.NewNop())

	got, err := uc.ListApproved(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, l := range got {
		assert.Equal(t, domain.StatusApproved, l.Status)
	}
}

func TestListOwnedKeepsAllOwnStatuses(t *testing.T) {
	repo := &fakeRepo{}
	seedListings(repo,
		listing("o1", "l1", domain.StatusApproved, "uploads/o1/a.jpg"),
		listing("o1", "l2", domain.StatusPending, "uploads/o1/b.jpg"),
		listing("o1", "l3", domain.StatusFlagged, "uploads/o1/c.jpg"),
		listing("o2", "l4", domain.StatusApproved, "uploads/o2/d.jpg"),
	)
	uc := NewQueryUsecase(repo, newFakeStorage(), nil, time.Minute, zap.NewNop())

	got, err := uc.ListOwned(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, l := range got {
		assert.Equal(t, "o1", l.OwnerID)
	}
}

func TestListOwnedRequiresOwner(t *testing.T) {
	uc := NewQueryUsecase(&fakeRepo{}, newFakeStorage(), nil, time.Minute, zap.NewNop())
	_, err := uc.ListOwned(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestEnrichmentPopulatesSignedURLs(t *testing.T) {
	repo := &fakeRepo{}
	seedListings(repo,
		listing("o1", "l1", domain.StatusApproved, "uploads/o1/a.jpg"),
		listing("o1", "l2", domain.StatusApproved, ""),
	)
	uc := NewQueryUsecase(repo, newFakeStorage(), nil, time.Minute, zap.NewNop())

	got, err := uc.ListApproved(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://signed.example.com/uploads/o1/a.jpg", got[0].SignedURL)
	assert.Empty(t, got[1].SignedURL, "records without an image key get no URL")
}

func TestEnrichmentSignFailureIsIsolated(t *testing.T) {
	repo := &fakeRepo{}
	seedListings(repo,
		listing("o1", "l1", domain.StatusApproved, "uploads/o1/a.jpg"),
		listing("o1", "l2", domain.StatusApproved, "uploads/o1/broken.jpg"),
		listing("o1", "l3", domain.StatusApproved, "uploads/o1/c.jpg"),
	)
	storage := newFakeStorage()
	storage.failSign["uploads/o1/broken.jpg"] = true
	uc := NewQueryUsecase(repo, storage, nil, time.Minute, zap.NewNop())

	got, err := uc.ListApproved(context.Background())
	require.NoError(t, err, "one failed sign must not fail the batch")
	require.Len(t, got, 3)
	assert.NotEmpty(t, got[0].SignedURL)
	assert.Empty(t, got[1].SignedURL)
	assert.NotEmpty(t, got[2].SignedURL)
}

func TestEnrichmentPreservesStoreOrder(t *testing.T) {
	repo := &fakeRepo{}
	ids := []string{"l1", "l2", "l3", "l4", "l5", "l6"}
	for _, id := range ids {
		seedListings(repo, listing("o1", id, domain.StatusApproved, "uploads/o1/"+id+".jpg"))
	}
	uc := NewQueryUsecase(repo, newFakeStorage(), nil, time.Minute, zap.NewNop())

	got, err := uc.ListApproved(context.Background())
	require.NoError(t, err)
	require.Len(t, got, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, got[i].ListingID)
	}
}

func TestEnrichmentSkipsFlaggedImages(t *testing.T) {
	repo := &fakeRepo{}
	seedListings(repo,
		listing("o1", "l1", domain.StatusFlagged, "uploads/o1/a.jpg"),
		listing("o1", "l2", domain.StatusPending, "uploads/o1/b.jpg"),
	)
	uc := NewQueryUsecase(repo, newFakeStorage(), nil, time.Minute, zap.NewNop())

	got, err := uc.ListOwned(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].SignedURL, "flagged listings keep their image hidden")
	assert.NotEmpty(t, got[1].SignedURL)
}

func TestListApprovedFetchFailure(t *testing.T) {
	repo := &fakeRepo{findErr: errors.New("cursor timeout")}
	uc := NewQueryUsecase(repo, newFakeStorage(), nil, time.Minute, zap.NewNop())

	_, err := uc.ListApproved(context.Background())
	var listErr *domain.ListError
	assert.ErrorAs(t, err, &listErr)
}

func TestListApprovedUsesCache(t *testing.T) {
	repo := &fakeRepo{}
	seedListings(repo, listing("o1", "l1", domain.StatusApproved, "uploads/o1/a.jpg"))
	cache := &fakeCache{}
	uc := NewQueryUsecase(repo, newFakeStorage(), cache, time.Minute, zap.NewNop())

	_, err := uc.ListApproved(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from the cache; the record store is not hit again.
	_, err = uc.ListApproved(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}
