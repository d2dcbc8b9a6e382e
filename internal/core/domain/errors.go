package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSemanticUnavailable indicates the external AI-search
	// collaborator is not configured. The semantic route fails fast;
	// fast and hybrid remain usable.
	ErrSemanticUnavailable = errors.New("semantic search unavailable")

	// ErrStoreClosed indicates the metadata store has been closed.
	// Reads arriving after Close fail with it instead of scanning.
	ErrStoreClosed = errors.New("metadata store closed")
)
