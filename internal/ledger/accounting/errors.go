package accounting

import (
	"errors"
	"fmt"
)

// Error kinds reported by the ledger. Callers match them with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
	ErrFormat            = errors.New("format error")
	ErrPersistence       = errors.New("persistence failure")

	// ErrReadOnly is returned for mutations addressed to the summary view.
	ErrReadOnly = fmt.Errorf("%w: summary view is read-only", ErrValidation)
)
