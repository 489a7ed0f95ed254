package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Loan lifecycle errors. All of them are caller-visible and recoverable.
var (
	ErrUnavailableBook      = errors.New("book has no available copies")
	ErrIneligibleBorrower   = errors.New("borrower is not eligible to borrow")
	ErrLoanNotFound         = fmt.Errorf("loan %w", ErrNotFound)
	ErrAlreadyReturned      = errors.New("loan has already been returned")
	ErrRenewalLimitExceeded = errors.New("loan renewal limit exceeded")
	ErrLoanOverdue          = errors.New("loan is overdue and cannot be renewed")
)

// AppError carries an HTTP-ish status code alongside an underlying error.
// Repositories use it for infrastructure failures.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
