package repository

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned by conditional stock decrements
	// when the product has fewer units than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
)
