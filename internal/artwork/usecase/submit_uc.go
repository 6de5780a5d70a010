package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artmarket/artwork-service/internal/artwork/domain"
)

// idempotencyNamespace seeds UUIDv5 derivation of listing IDs from caller
// idempotency keys. Changing it would break re-submission dedup.
var idempotencyNamespace = uuid.MustParse("9f2c1b0e-5a7d-4c63-8b21-e4f0a9d3c516")

// ImageFile is one uploaded image as received from the form.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        io.Reader
}

// Publisher emits domain events after state changes.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// SubmitUsecase runs the listing submission workflow: validate, upload the
// image, then persist the record. Steps are strictly sequential; a failed
// step leaves no later state behind.
type SubmitUsecase struct {
	repo      domain.ListingRepository
	storage   domain.Storage
	publisher Publisher
	logger    *zap.Logger
}

func NewSubmitUsecase(repo domain.ListingRepository, storage domain.Storage, publisher Publisher, logger *zap.Logger) *SubmitUsecase {
	return &SubmitUsecase{repo: repo, storage: storage, publisher: publisher, logger: logger}
}

func (uc *SubmitUsecase) Submit(ctx context.Context, ownerID string, form SubmitForm, image *ImageFile) (*domain.Listing, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if image == nil {
		return nil, &domain.ValidationError{Field: "images", Reason: "at least one image required"}
	}
	if vErr := validateForm(form); vErr != nil {
		return nil, vErr
	}

	key := fmt.Sprintf("uploads/%s/%s", ownerID, filepath.Base(image.Name))
	storedKey, err := uc.storage.Upload(ctx, key, image.Data, image.Size, image.ContentType)
	if err != nil {
		uc.logger.Error("submit: image upload failed",
			zap.String("owner_id", ownerID), zap.String("key", key), zap.Error(err))
		return nil, &domain.UploadError{Cause: err}
	}

	now := time.Now().UTC()
	listing := &domain.Listing{
		OwnerID:     ownerID,
		ListingID:   uc.newListingID(ownerID, form.IdempotencyKey),
		Title:       form.Title,
		Description: form.Description,
		Price:       form.Price,
		Category:    form.Category,
		Medium:      form.Medium,
		Dimensions:  form.Dimensions,
		Year:        form.Year,
		Tags:        form.Tags,
		ImageKey:    storedKey,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, listing); err != nil {
		// The uploaded image stays behind as an orphan; cleanup runs out of band.
		uc.logger.Error("submit: record persist failed",
			zap.String("owner_id", ownerID), zap.String("listing_id", listing.ListingID), zap.Error(err))
		return nil, &domain.PersistError{Cause: err}
	}

	uc.logger.Info("submit: listing created",
		zap.String("owner_id", ownerID),
		zap.String("listing_id", listing.ListingID),
		zap.String("image_key", listing.ImageKey))

	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, "listing.created", listing); err != nil {
			uc.logger.Warn("submit: event publish failed",
				zap.String("listing_id", listing.ListingID), zap.Error(err))
		}
	}

	return listing, nil
}

// newListingID returns a fresh random UUID, or a deterministic UUIDv5 scoped
// to the owner when an idempotency key was supplied so that re-submitting the
// same attempt replaces the earlier record instead of duplicating it.
func (uc *SubmitUsecase) newListingID(ownerID, idempotencyKey string) string {
	if idempotencyKey == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(idempotencyNamespace, []byte(ownerID+"/"+idempotencyKey)).String()
}
