package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
)

// Category classifies ledger failures so callers can decide between retrying
// and failing permanently without inspecting RPC messages.
type Category string

const (
	CategoryTimeout     Category = "timeout"
	CategoryUnavailable Category = "unavailable"
	CategoryReverted    Category = "reverted"
	CategoryNotFound    Category = "not_found"
	CategoryBadData     Category = "bad_data"
)

var (
	ErrCredentialNotFound = errors.New("credential not found on ledger")
	ErrReverted           = errors.New("transaction reverted")
	ErrCircuitOpen        = errors.New("ledger reads short-circuited")
	ErrReadOnly           = errors.New("ledger client has no signing key")
)

// Error wraps a ledger failure with its category and the contract method
// that produced it.
type Error struct {
	Category  Category
	Op        string
	Err       error
	Retryable bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("ledger %s [%s]: %v", e.Op, e.Category, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error. Timeouts and unavailability are retryable.
func NewError(category Category, op string, err error) *Error {
	return &Error{
		Category:  category,
		Op:        op,
		Err:       err,
		Retryable: category == CategoryTimeout || category == CategoryUnavailable,
	}
}

func IsRetryable(err error) bool {
	var le *Error
	if errors.As(err, &le) {
		return le.Retryable
	}
	return false
}

// CategoryOf returns the category of a ledger error, or CategoryUnavailable
// for anything else.
func CategoryOf(err error) Category {
	var le *Error
	if errors.As(err, &le) {
		return le.Category
	}
	return CategoryUnavailable
}

// classify turns an RPC or binding error into an *Error.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var le *Error
	if errors.As(err, &le) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return NewError(CategoryTimeout, op, err)
	case errors.Is(err, bind.ErrNoCode):
		return NewError(CategoryBadData, op, err)
	case strings.Contains(err.Error(), "execution reverted"):
		return NewError(CategoryReverted, op, err)
	case strings.HasPrefix(err.Error(), "abi:"):
		return NewError(CategoryBadData, op, err)
	default:
		return NewError(CategoryUnavailable, op, err)
	}
}
