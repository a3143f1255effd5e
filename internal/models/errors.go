package models

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidRequest is matched by every error that aborts planning before any
// catalog is queried. Handlers map it to 422.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound is returned by itinerary stores for unknown ids.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when an itinerary id is already stored.
// Stored itineraries are never overwritten.
var ErrAlreadyExists = errors.New("already exists")

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

const (
	ErrMissingDestination ValidationError = "destination is required"
	ErrInvalidTravelers   ValidationError = "travelers must be at least 1"
	ErrUnknownTravelStyle ValidationError = "travel_style must be one of budget, standard, luxury"
)

type InvalidBudgetError struct {
	Reason string
}

func (e *InvalidBudgetError) Error() string {
	return "invalid budget: " + e.Reason
}

func (e *InvalidBudgetError) Is(target error) bool {
	return target == ErrInvalidRequest
}

type InvalidDateRangeError struct {
	Start  string
	End    string
	Reason string
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("invalid date range %q..%q: %s", e.Start, e.End, e.Reason)
}

func (e *InvalidDateRangeError) Is(target error) bool {
	return target == ErrInvalidRequest
}

type UnknownDestinationError struct {
	Destination string
}

func (e *UnknownDestinationError) Error() string {
	return fmt.Sprintf("unknown or unsupported destination %q", e.Destination)
}

func (e *UnknownDestinationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// CatalogUnavailableError reports that a catalog could not be queried at all,
// as opposed to answering with no inventory.
type CatalogUnavailableError struct {
	Category Category
	Err      error
}

func (e *CatalogUnavailableError) Error() string {
	return string(e.Category) + " catalog unavailable: " + e.Err.Error()
}

func (e *CatalogUnavailableError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was the per-call deadline.
func (e *CatalogUnavailableError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

func NewCatalogUnavailableError(category Category, err error) *CatalogUnavailableError {
	return &CatalogUnavailableError{
		Category: category,
		Err:      err,
	}
}

// ReferenceGenerationError means unique booking codes could not be produced.
// It indicates a bug or a broken salt and is always fatal.
type ReferenceGenerationError struct {
	Category Category
	Identity string
	Attempts int
}

func (e *ReferenceGenerationError) Error() string {
	return fmt.Sprintf("could not generate unique %s reference for %q after %d attempts",
		e.Category, e.Identity, e.Attempts)
}
