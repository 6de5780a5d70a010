package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/artmarket/artwork-service/internal/artwork/domain"
)

// fakeRepo is an in-memory ListingRepository that counts calls so tests can
// assert "zero backend calls" properties.
type fakeRepo struct {
	mu        sync.Mutex
	listings  []*domain.Listing
	createErr error
	findErr   error
	calls     int
}

func (r *fakeRepo) Create(_ context.Context, listing *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.createErr != nil {
		return r.createErr
	}
	for i, existing := range r.listings {
		if existing.OwnerID == listing.OwnerID && existing.ListingID == listing.ListingID {
			r.listings[i] = listing
			return nil
		}
	}
	r.listings = append(r.listings, listing)
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, ownerID, listingID string) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, l := range r.listings {
		if l.OwnerID == ownerID && l.ListingID == listingID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrListingNotFound
}

func (r *fakeRepo) FindByFilter(_ context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*domain.Listing
	for _, l := range r.listings {
		if filter.OwnerID != "" && l.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) UpdateModeration(_ context.Context, ownerID, listingID string, status domain.Status, labels []domain.ModerationLabel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, l := range r.listings {
		if l.OwnerID == ownerID && l.ListingID == listingID {
			l.Status = status
			l.ModerationLabels = labels
			l.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrListingNotFound
}

// fakeStorage records uploads by key and signs URLs unless told to fail.
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	failSign  map[string]bool
	calls     int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, failSign: map[string]bool{}}
}

func (s *fakeStorage) Upload(_ context.Context, key string, data io.Reader, _ int64, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(data); err != nil {
		return "", err
	}
	s.objects[key] = buf.Bytes()
	return key, nil
}

func (s *fakeStorage) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failSign[key] {
		return "", errors.New("sign refused")
	}
	return "https://signed.example.com/" + key, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.subjects = append(p.subjects, subject)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	approved    []*domain.Listing
	gets, sets  int
	invalidated int
}

func (c *fakeCache) GetApproved(_ context.Context) ([]*domain.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.approved, nil
}

func (c *fakeCache) SetApproved(_ context.Context, listings []*domain.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.approved = listings
	return nil
}

func (c *fakeCache) InvalidateApproved(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.approved = nil
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *fakeNotifier) SendModerationOutcome(toEmail, _ string, status domain.Status, _ []domain.ModerationLabel) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, fmt.Sprintf("%s:%s", toEmail, status))
	return nil
}

func testImage(name string) *ImageFile {
	data := []byte("fake image bytes for " + name)
	return &ImageFile{
		Name:        name,
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
		Data:        bytes.NewReader(data),
	}
}
