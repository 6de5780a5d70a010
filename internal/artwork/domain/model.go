package domain

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusFlagged  Status = "flagged"
)

// Valid reports whether s is one of the known lifecycle statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusFlagged:
		return true
	}
	return false
}

// ParseStatus converts a stored string into a Status. Unknown values are
// rejected rather than carried through as-is.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	return st, st.Valid()
}

// ModerationLabel is one finding attached by the external moderation
// pipeline when it flags a listing. Confidence is a percentage in 0..100.
type ModerationLabel struct {
	Label      string
	Confidence float64
}

// Listing is an artwork listing record. The pair (OwnerID, ListingID) is the
// unique identity; both are immutable after creation. Metadata fields are
// free-form strings and stored exactly as submitted.
type Listing struct {
	OwnerID   string
	ListingID string

	Title       string
	Description string
	Price       string
	Category    string
	Medium      string
	Dimensions  string
	Year        string
	Tags        string

	// ImageKey is the object-storage path of the primary image. It is set
	// once from the upload result and never user-supplied.
	ImageKey string

	Status Status

	// ModerationLabels is populated only by the moderation process when the
	// listing is flagged.
	ModerationLabels []ModerationLabel

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayListing is a Listing enriched for display with a time-limited
// signed image URL. SignedURL is never persisted and may be empty when the
// image could not be signed or the listing is flagged.
type DisplayListing struct {
	Listing
	SignedURL string
}

// Filter narrows a listing query. Zero-valued fields are ignored.
type Filter struct {
	OwnerID string
	Status  Status
}
