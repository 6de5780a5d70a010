package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/artmarket/artwork-service/internal/adapter/httpapi/middleware"
	"github.com/artmarket/artwork-service/internal/artwork/domain"
	"github.com/artmarket/artwork-service/internal/artwork/usecase"
)

var tracer = otel.Tracer("artwork-service/httpapi")

const maxUploadBytes = 32 << 20

// Submitter and Querier are the two workflows the HTTP layer consumes.
// They are interfaces so handlers can be tested against doubles.
type Submitter interface {
	Submit(ctx context.Context, ownerID string, form usecase.SubmitForm, image *usecase.ImageFile) (*domain.Listing, error)
}

type Querier interface {
	ListApproved(ctx context.Context) ([]domain.DisplayListing, error)
	ListOwned(ctx context.Context, ownerID string) ([]domain.DisplayListing, error)
}

type Handler struct {
	submit Submitter
	query  Querier
	logger *zap.Logger
}

func NewHandler(submit Submitter, query Querier, logger *zap.Logger) *Handler {
	return &Handler{submit: submit, query: query, logger: logger}
}

type listingResponse struct {
	OwnerID          string          `json:"ownerId"`
	ListingID        string          `json:"listingId"`
	Title            string          `json:"title,omitempty"`
	Description      string          `json:"description,omitempty"`
	Price            string          `json:"price,omitempty"`
	Category         string          `json:"category,omitempty"`
	Medium           string          `json:"medium,omitempty"`
	Dimensions       string          `json:"dimensions,omitempty"`
	Year             string          `json:"year,omitempty"`
	Tags             string          `json:"tags,omitempty"`
	ImageKey         string          `json:"imageKey,omitempty"`
	Status           string          `json:"status"`
	SignedURL        string          `json:"signedUrl,omitempty"`
	ModerationLabels []labelResponse `json:"moderationLabels,omitempty"`
}

type labelResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func toListingResponse(l domain.Listing, signedURL string) listingResponse {
	resp := listingResponse{
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
		SignedURL:   signedURL,
	}
	for _, lab := range l.ModerationLabels {
		resp.ModerationLabels = append(resp.ModerationLabels, labelResponse{Label: lab.Label, Confidence: lab.Confidence})
	}
	return resp
}

// HandleCreateListing accepts a multipart form with the listing fields and a
// single "image" file part, runs the submission workflow, and returns the
// created record.
func (h *Handler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	ctx, span := tracer.Start(r.Context(), "Handler.CreateListing",
		oteltrace.WithAttributes(attribute.String("owner_id", ownerID)))
	defer span.End()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	form := usecase.SubmitForm{
		Title:          r.FormValue("title"),
		Description:    r.FormValue("description"),
		Price:          r.FormValue("price"),
		Category:       r.FormValue("category"),
		Medium:         r.FormValue("medium"),
		Dimensions:     r.FormValue("dimensions"),
		Year:           r.FormValue("year"),
		Tags:           r.FormValue("tags"),
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	}

	var image *usecase.ImageFile
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		image = &usecase.ImageFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Data:        file,
		}
	case errors.Is(err, http.ErrMissingFile):
		// The usecase rejects a missing image with a field-level error.
	default:
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid image part"})
		return
	}

	listing, err := h.submit.Submit(ctx, ownerID, form, image)
	if err != nil {
		span.RecordError(err)
		h.writeSubmitError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toListingResponse(*listing, ""))
}

// HandleListListings serves the public gallery of approved listings.
func (h *Handler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Handler.ListListings")
	defer span.End()

	listings, err := h.query.ListApproved(ctx)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("list listings failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, errorResponse{Error: "listings unavailable"})
		return
	}

	writeListings(w, listings)
}

// HandleMyListings serves the authenticated owner's listings in every status.
func (h *Handler) HandleMyListings(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	ctx, span := tracer.Start(r.Context(), "Handler.MyListings",
		oteltrace.WithAttributes(attribute.String("owner_id", ownerID)))
	defer span.End()

	listings, err := h.query.ListOwned(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("list owned listings failed", zap.String("owner_id", ownerID), zap.Error(err))
		writeError(w, http.StatusBadGateway, errorResponse{Error: "listings unavailable"})
		return
	}

	writeListings(w, listings)
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	var upErr *domain.UploadError
	var pErr *domain.PersistError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Field: vErr.Field, Reason: vErr.Reason})
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	case errors.As(err, &upErr):
		h.logger.Error("submit upload failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, errorResponse{Error: "image upload failed"})
	case errors.As(err, &pErr):
		h.logger.Error("submit persist failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, errorResponse{Error: "listing could not be saved"})
	default:
		h.logger.Error("submit failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeListings(w http.ResponseWriter, listings []domain.DisplayListing) {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l.Listing, l.SignedURL))
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	writeJSON(w, status, resp)
}
