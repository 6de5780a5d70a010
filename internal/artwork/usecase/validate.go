package usecase

import (
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/artmarket/artwork-service/internal/artwork/domain"
)

const (
	titleMinLen = 2
	titleMaxLen = 100
	minYear     = 1900
)

// SubmitForm carries the raw form fields of a listing submission. All values
// arrive as strings; Price and Year are validated as numerics but stored as
// entered. IdempotencyKey is optional and lets a caller safely re-submit the
// same attempt after a transient failure.
type SubmitForm struct {
	Title          string
	Description    string
	Price          string
	Category       string
	Medium         string
	Dimensions     string
	Year           string
	Tags           string
	IdempotencyKey string
}

func validateForm(form SubmitForm) *domain.ValidationError {
	if n := utf8.RuneCountInString(form.Title); n < titleMinLen {
		return &domain.ValidationError{Field: "title", Reason: "title must be at least 2 characters"}
	} else if n > titleMaxLen {
		return &domain.ValidationError{Field: "title", Reason: "title must be at most 100 characters"}
	}

	if form.Price != "" {
		price, err := strconv.ParseFloat(form.Price, 64)
		if err != nil {
			return &domain.ValidationError{Field: "price", Reason: "price must be a number"}
		}
		if price <= 0 {
			return &domain.ValidationError{Field: "price", Reason: "price must be a positive number"}
		}
	}

	if form.Year != "" {
		year, err := strconv.Atoi(form.Year)
		if err != nil {
			return &domain.ValidationError{Field: "year", Reason: "year must be an integer"}
		}
		if current := time.Now().Year(); year < minYear || year > current {
			return &domain.ValidationError{Field: "year", Reason: "year must be between 1900 and the current year"}
		}
	}

	return nil
}
