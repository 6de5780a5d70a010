package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artmarket/artwork-service/internal/artwork/domain"
)

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "Your artwork listing was approved", subjectFor(domain.StatusApproved))
	assert.Equal(t, "Your artwork listing was flagged", subjectFor(domain.StatusFlagged))
}

func TestBodyForApproved(t *testing.T) {
	body := bodyFor("Sunset", domain.StatusApproved, nil)
	assert.Contains(t, body, "Sunset")
	assert.Contains(t, body, "approved")
	assert.NotContains(t, body, "Moderation findings")
}

func TestBodyForFlaggedListsLabels(t *testing.T) {
	labels := []domain.ModerationLabel{
		{Label: "Explicit Nudity", Confidence: 98.7},
		{Label: "Violence", Confidence: 55.2},
	}
	body := bodyFor("Sunset", domain.StatusFlagged, labels)
	assert.Contains(t, body, "flagged")
	assert.Contains(t, body, "Explicit Nudity (99%)")
	assert.Contains(t, body, "Violence (55%)")
}
