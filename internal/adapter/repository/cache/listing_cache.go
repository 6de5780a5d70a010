package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/artmarket/artwork-service/internal/artwork/domain"
)

const approvedKey = "listings:approved"

// ListingCache keeps the approved-gallery records in Redis. Only raw records
// are cached; signed URLs expire and are always resolved fresh.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(addr string, ttl time.Duration) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &ListingCache{client: client, ttl: ttl}, nil
}

// GetApproved returns (nil, nil) on a cache miss.
func (c *ListingCache) GetApproved(ctx context.Context) ([]*domain.Listing, error) {
	data, err := c.client.Get(ctx, approvedKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listings []*domain.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *ListingCache) SetApproved(ctx context.Context, listings []*domain.Listing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, approvedKey, data, c.ttl).Err()
}

func (c *ListingCache) InvalidateApproved(ctx context.Context) error {
	return c.client.Del(ctx, approvedKey).Err()
}
