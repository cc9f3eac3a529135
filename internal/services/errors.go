package services

import (
	"errors"

	"express-ledger-service/internal/ports"
)

var (
	// ErrEmptyContent is returned when the submitted text is blank.
	ErrEmptyContent = errors.New("content is empty")
	// ErrNoEntries is returned when the parser finds no entries in the text.
	ErrNoEntries = errors.New("no entries could be parsed")
	// ErrInvalidRecord is returned for input that fails field validation.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrNothingToExport is returned when a day has no records to export.
	ErrNothingToExport = errors.New("no records to export")
	// ErrNotFound aliases the repository sentinel so callers need only this package.
	ErrNotFound = ports.ErrNotFound
)
