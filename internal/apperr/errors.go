// Package apperr defines the sentinel errors shared across the application.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrEmptyPlan is returned when a meal plan is assembled from zero
	// schedule rows; an empty schedule has no defined start date.
	ErrEmptyPlan = errors.New("empty plan")

	// ErrIncompletePlan is returned when a slot list is shorter than the
	// plan's day count during expansion back to the flat form.
	ErrIncompletePlan = errors.New("incomplete plan")

	// ErrMissingNutrition is returned when a planned recipe has no entry in
	// the nutrition result table at save time.
	ErrMissingNutrition = errors.New("missing nutrition")

	// ErrMalformedTimestamp is returned when a stored timestamp is present
	// but not parseable as ISO-8601 text.
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrUnexpectedType is returned when a stored timestamp field is neither
	// absent, text, nor an already-structured time value.
	ErrUnexpectedType = errors.New("unexpected type")
)
