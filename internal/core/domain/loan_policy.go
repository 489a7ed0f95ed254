package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

const (
	DefaultMaxRenewals          = 2
	DefaultRenewalExtensionDays = 30
	DefaultLoanPeriodDays       = 30
	MaxExtensionDays            = 365
	fineDecimalPlaces           = 2
)

// DefaultFinePerDay is the flat per-day overdue rate in currency units.
var DefaultFinePerDay = decimal.RequireFromString("0.50")

// LoanPolicy holds the configurable lending rules.
type LoanPolicy struct {
	MaxRenewals           int
	RenewalExtensionDays  int
	DefaultLoanPeriodDays int
	FinePerDay            decimal.Decimal
}

// DefaultLoanPolicy returns the policy used when nothing is configured.
func DefaultLoanPolicy() LoanPolicy {
	return LoanPolicy{
		MaxRenewals:           DefaultMaxRenewals,
		RenewalExtensionDays:  DefaultRenewalExtensionDays,
		DefaultLoanPeriodDays: DefaultLoanPeriodDays,
		FinePerDay:            DefaultFinePerDay,
	}
}

// Validate checks the policy for nonsensical values.
func (p LoanPolicy) Validate() error {
	if p.MaxRenewals < 0 {
		return fmt.Errorf("%w: max renewals must not be negative", apperrors.ErrValidation)
	}
	if p.RenewalExtensionDays < 1 || p.RenewalExtensionDays > MaxExtensionDays {
		return fmt.Errorf("%w: renewal extension must be between 1 and %d days", apperrors.ErrValidation, MaxExtensionDays)
	}
	if p.DefaultLoanPeriodDays < 1 {
		return fmt.Errorf("%w: default loan period must be at least 1 day", apperrors.ErrValidation)
	}
	if p.FinePerDay.IsNegative() {
		return fmt.Errorf("%w: fine per day must not be negative", apperrors.ErrValidation)
	}
	return nil
}

// FineFor computes overdueDays × FinePerDay, rounded to cents.
func (p LoanPolicy) FineFor(overdueDays int) decimal.Decimal {
	if overdueDays <= 0 {
		return decimal.Zero
	}
	return p.FinePerDay.Mul(decimal.NewFromInt(int64(overdueDays))).Round(fineDecimalPlaces)
}

// DecideIssue checks whether book can be lent to borrower until dueDate.
// Nothing is mutated; the caller applies the effects only when this returns nil.
func (p LoanPolicy) DecideIssue(book Book, borrower Borrower, dueDate, today time.Time) error {
	if book.AvailableCopies < 1 {
		return fmt.Errorf("%w: book %s", apperrors.ErrUnavailableBook, book.BookID)
	}
	if !borrower.CanBorrow() {
		return fmt.Errorf("%w: borrower %s is %s", apperrors.ErrIneligibleBorrower, borrower.BorrowerID, borrower.Status)
	}
	if DateOf(dueDate).Before(DateOf(today)) {
		return fmt.Errorf("%w: due date %s is before issue date %s", apperrors.ErrValidation,
			DateOf(dueDate).Format(DateLayout), DateOf(today).Format(DateLayout))
	}
	return nil
}

// DecideReturn checks that loan can be returned today and returns the fine to freeze on it.
func (p LoanPolicy) DecideReturn(loan Loan, today time.Time) (decimal.Decimal, error) {
	if loan.IsReturned() {
		return decimal.Zero, fmt.Errorf("%w: loan %s", apperrors.ErrAlreadyReturned, loan.LoanID)
	}
	if StatusOf(loan, today) != LoanOverdue {
		return decimal.Zero, nil
	}
	return p.FineFor(OverdueDays(loan, today)), nil
}

// DecideRenew checks that loan can be renewed today and returns the new due date.
// An extensionDays of zero means the policy default.
func (p LoanPolicy) DecideRenew(loan Loan, today time.Time, extensionDays int) (time.Time, error) {
	if extensionDays == 0 {
		extensionDays = p.RenewalExtensionDays
	}
	if extensionDays < 1 || extensionDays > MaxExtensionDays {
		return time.Time{}, fmt.Errorf("%w: extension must be between 1 and %d days", apperrors.ErrValidation, MaxExtensionDays)
	}
	if loan.IsReturned() {
		return time.Time{}, fmt.Errorf("%w: loan %s", apperrors.ErrAlreadyReturned, loan.LoanID)
	}
	if loan.RenewalCount >= p.MaxRenewals {
		return time.Time{}, fmt.Errorf("%w: loan %s renewed %d of %d times", apperrors.ErrRenewalLimitExceeded,
			loan.LoanID, loan.RenewalCount, p.MaxRenewals)
	}
	if StatusOf(loan, today) == LoanOverdue {
		return time.Time{}, fmt.Errorf("%w: loan %s was due %s", apperrors.ErrLoanOverdue, loan.LoanID, DateOf(loan.DueDate).Format(DateLayout))
	}
	return AddDays(today, extensionDays), nil
}
