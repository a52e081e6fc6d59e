package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is in a state that does not allow the operation.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// Settlement errors. Each one wraps one of the generic errors above so callers
// can branch on either the specific or the generic class with errors.Is.
var (
	ErrAccountNotFound        = fmt.Errorf("account not found: %w", ErrNotFound)
	ErrInvalidAmount          = fmt.Errorf("invalid amount: %w", ErrValidation)
	ErrUnbalancedEntry        = fmt.Errorf("settlement legs do not balance: %w", ErrValidation)
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrVersionConflict        = fmt.Errorf("account version conflict: %w", ErrConflict)
	ErrConcurrentModification = fmt.Errorf("concurrent modification: %w", ErrConflict)
	ErrIdempotencyMismatch    = fmt.Errorf("idempotency key reused with a different payload: %w", ErrConflict)
	ErrSettlementFailed       = fmt.Errorf("settlement failed: %w", ErrInternal)
	ErrStatusNotRecorded      = fmt.Errorf("settlement posted but reference status not recorded: %w", ErrInternal)
)

// ResultCode is the code surfaced to settlement callers.
type ResultCode string

const (
	CodeOK                     ResultCode = "OK"
	CodeUnbalancedEntry        ResultCode = "UNBALANCED_ENTRY"
	CodeInsufficientFunds      ResultCode = "INSUFFICIENT_FUNDS"
	CodeAccountNotFound        ResultCode = "ACCOUNT_NOT_FOUND"
	CodeConcurrentModification ResultCode = "CONCURRENT_MODIFICATION"
	CodeInvalidAmount          ResultCode = "INVALID_AMOUNT"
	CodeIdempotencyMismatch    ResultCode = "IDEMPOTENCY_MISMATCH"
	CodeValidation             ResultCode = "VALIDATION_ERROR"
	CodeNotFound               ResultCode = "NOT_FOUND"
	CodeConflict               ResultCode = "CONFLICT"
	CodeSettlementFailed       ResultCode = "SETTLEMENT_FAILED"
)

// CodeOf maps an error to its result code. Specific errors are checked before
// the generic class they wrap.
func CodeOf(err error) ResultCode {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrUnbalancedEntry):
		return CodeUnbalancedEntry
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrConcurrentModification), errors.Is(err, ErrVersionConflict):
		return CodeConcurrentModification
	case errors.Is(err, ErrIdempotencyMismatch):
		return CodeIdempotencyMismatch
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return CodeConflict
	default:
		return CodeSettlementFailed
	}
}

// HTTPStatusOf maps an error to the HTTP status handlers respond with.
func HTTPStatusOf(err error) int {
	var appErr *AppError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.As(err, &appErr) && appErr.Status != 0:
		return appErr.Status
	default:
		return http.StatusInternalServerError
	}
}

// AppError carries an HTTP status and message alongside the underlying cause.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with the given status, message and cause.
func NewAppError(status int, message string, err error) *AppError {
	return &AppError{Status: status, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message, Err: ErrNotFound}
}
