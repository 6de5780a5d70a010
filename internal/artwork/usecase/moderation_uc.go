package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/artmarket/artwork-service/internal/artwork/domain"
)

// Verdict is the outcome delivered by the external moderation pipeline for
// one pending listing. OwnerEmail is optional and only used for notification.
type Verdict struct {
	OwnerID    string
	ListingID  string
	Status     domain.Status
	Labels     []domain.ModerationLabel
	OwnerEmail string
}

// CacheInvalidator drops cached gallery state after a status change.
type CacheInvalidator interface {
	InvalidateApproved(ctx context.Context) error
}

// Notifier tells an owner about a moderation outcome.
type Notifier interface {
	SendModerationOutcome(toEmail, listingTitle string, status domain.Status, labels []domain.ModerationLabel) error
}

// ModerationUsecase applies moderation verdicts. A listing only ever moves
// pending -> approved or pending -> flagged; everything else is rejected.
type ModerationUsecase struct {
	repo   domain.ListingRepository
	cache  CacheInvalidator
	mailer Notifier
	logger *zap.Logger
}

func NewModerationUsecase(repo domain.ListingRepository, cache CacheInvalidator, mailer Notifier, logger *zap.Logger) *ModerationUsecase {
	return &ModerationUsecase{repo: repo, cache: cache, mailer: mailer, logger: logger}
}

func (uc *ModerationUsecase) ApplyVerdict(ctx context.Context, v Verdict) error {
	switch v.Status {
	case domain.StatusApproved, domain.StatusFlagged:
	default:
		return domain.ErrInvalidTransition
	}

	listing, err := uc.repo.FindByID(ctx, v.OwnerID, v.ListingID)
	if err != nil {
		return err
	}
	if listing.Status != domain.StatusPending {
		uc.logger.Warn("moderation: verdict for non-pending listing ignored",
			zap.String("listing_id", v.ListingID), zap.String("current_status", string(listing.Status)))
		return domain.ErrInvalidTransition
	}

	var labels []domain.ModerationLabel
	if v.Status == domain.StatusFlagged {
		labels = v.Labels
	}

	if err := uc.repo.UpdateModeration(ctx, v.OwnerID, v.ListingID, v.Status, labels); err != nil {
		uc.logger.Error("moderation: status update failed",
			zap.String("listing_id", v.ListingID), zap.Error(err))
		return &domain.PersistError{Cause: err}
	}

	uc.logger.Info("moderation: verdict applied",
		zap.String("owner_id", v.OwnerID),
		zap.String("listing_id", v.ListingID),
		zap.String("status", string(v.Status)),
		zap.Int("labels", len(labels)))

	if uc.cache != nil {
		if err := uc.cache.InvalidateApproved(ctx); err != nil {
			uc.logger.Warn("moderation: cache invalidation failed", zap.Error(err))
		}
	}

	if uc.mailer != nil && v.OwnerEmail != "" {
		if err := uc.mailer.SendModerationOutcome(v.OwnerEmail, listing.Title, v.Status, labels); err != nil {
			uc.logger.Warn("moderation: owner notification failed",
				zap.String("listing_id", v.ListingID), zap.Error(err))
		}
	}

	return nil
}
