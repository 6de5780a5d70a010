package mongodb

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/artmarket/artwork-service/internal/artwork/domain"
)

// listingDocument is the MongoDB shape of a listing. ModerationLabels is kept
// raw because the moderation pipeline stored it either as a document array or
// as a JSON-encoded string; decodeModerationLabels sorts that out.
type listingDocument struct {
	OwnerID          string        `bson:"owner_id"`
	ListingID        string        `bson:"listing_id"`
	Title            string        `bson:"title,omitempty"`
	Description      string        `bson:"description,omitempty"`
	Price            string        `bson:"price,omitempty"`
	Category         string        `bson:"category,omitempty"`
	Medium           string        `bson:"medium,omitempty"`
	Dimensions       string        `bson:"dimensions,omitempty"`
	Year             string        `bson:"year,omitempty"`
	Tags             string        `bson:"tags,omitempty"`
	ImageKey         string        `bson:"image_key,omitempty"`
	Status           string        `bson:"status"`
	ModerationLabels bson.RawValue `bson:"moderation_labels,omitempty"`
	CreatedAt        time.Time     `bson:"created_at"`
	UpdatedAt        time.Time     `bson:"updated_at"`
}

type labelDocument struct {
	Label      string  `bson:"label"`
	Confidence float64 `bson:"confidence"`
}

// jsonLabel matches the capitalized field names the moderation pipeline uses
// when it serializes labels to a JSON string.
type jsonLabel struct {
	Label      string  `json:"Label"`
	Confidence float64 `json:"Confidence"`
}

func toListingDocument(l *domain.Listing) *listingDocument {
	return &listingDocument{
		OwnerID:     l.OwnerID,
		ListingID:   l.ListingID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Category:    l.Category,
		Medium:      l.Medium,
		Dimensions:  l.Dimensions,
		Year:        l.Year,
		Tags:        l.Tags,
		ImageKey:    l.ImageKey,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toDomainListing(d *listingDocument) *domain.Listing {
	status, ok := domain.ParseStatus(d.Status)
	if !ok {
		status = domain.StatusPending
	}
	labels, _ := decodeModerationLabels(d.ModerationLabels)
	return &domain.Listing{
		OwnerID:          d.OwnerID,
		ListingID:        d.ListingID,
		Title:            d.Title,
		Description:      d.Description,
		Price:            d.Price,
		Category:         d.Category,
		Medium:           d.Medium,
		Dimensions:       d.Dimensions,
		Year:             d.Year,
		Tags:             d.Tags,
		ImageKey:         d.ImageKey,
		Status:           status,
		ModerationLabels: labels,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	out := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDomainListing(doc))
	}
	return out
}

func toLabelDocuments(labels []domain.ModerationLabel) []labelDocument {
	out := make([]labelDocument, 0, len(labels))
	for _, l := range labels {
		out = append(out, labelDocument{Label: l.Label, Confidence: l.Confidence})
	}
	return out
}

// decodeModerationLabels turns the stored moderation_labels value into a
// label list. The second return is false when the field is absent or not
// decodable; malformed data reads as absent, never as an error.
func decodeModerationLabels(raw bson.RawValue) ([]domain.ModerationLabel, bool) {
	switch raw.Type {
	case bsontype.Array:
		var docs []labelDocument
		if err := raw.Unmarshal(&docs); err != nil {
			return nil, false
		}
		out := make([]domain.ModerationLabel, 0, len(docs))
		for _, d := range docs {
			out = append(out, domain.ModerationLabel{Label: d.Label, Confidence: d.Confidence})
		}
		return out, true
	case bsontype.String:
		var parsed []jsonLabel
		if err := json.Unmarshal([]byte(raw.StringValue()), &parsed); err != nil {
			return nil, false
		}
		out := make([]domain.ModerationLabel, 0, len(parsed))
		for _, l := range parsed {
			out = append(out, domain.ModerationLabel{Label: l.Label, Confidence: l.Confidence})
		}
		return out, true
	default:
		return nil, false
	}
}
