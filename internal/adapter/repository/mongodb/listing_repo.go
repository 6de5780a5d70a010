package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/artmarket/artwork-service/internal/artwork/domain"
)

type ListingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{collection: db.Collection("artwork_listings")}
}

// EnsureIndexes creates the unique compound index backing the
// (owner_id, listing_id) identity pair. Call once at startup.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "listing_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create upserts on the identity pair so an idempotent re-submission replaces
// its earlier record instead of colliding with the unique index.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	doc := toListingDocument(listing)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	doc.UpdatedAt = time.Now().UTC()

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"owner_id": listing.OwnerID, "listing_id": listing.ListingID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *ListingRepository) FindByID(ctx context.Context, ownerID, listingID string) (*domain.Listing, error) {
	var doc listingDocument
	err := r.collection.FindOne(ctx, bson.M{"owner_id": ownerID, "listing_id": listingID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) FindByFilter(ctx context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	query := bson.M{}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainListings(docs), nil
}

func (r *ListingRepository) UpdateModeration(ctx context.Context, ownerID, listingID string, status domain.Status, labels []domain.ModerationLabel) error {
	update := bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}
	if len(labels) > 0 {
		update["moderation_labels"] = toLabelDocuments(labels)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"owner_id": ownerID, "listing_id": listingID},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
