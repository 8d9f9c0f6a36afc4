package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateSubmission = errors.New("submission already exists")
	ErrVersionMismatch     = errors.New("round progress version mismatch")
)
