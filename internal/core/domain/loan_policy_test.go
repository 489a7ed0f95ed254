package domain_test

import (
	"testing"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanPolicy_FineFor(t *testing.T) {
	policy := domain.DefaultLoanPolicy()

	tests := []struct {
		days int
		want string
	}{
		{days: -3, want: "0"},
		{days: 0, want: "0"},
		{days: 1, want: "0.5"},
		{days: 31, want: "15.5"},
	}
	for _, tt := range tests {
		got := policy.FineFor(tt.days)
		assert.Truef(t, decimal.RequireFromString(tt.want).Equal(got), "days=%d got %s", tt.days, got)
	}
}

func TestLoanPolicy_Validate(t *testing.T) {
	assert.NoError(t, domain.DefaultLoanPolicy().Validate())

	p := domain.DefaultLoanPolicy()
	p.FinePerDay = decimal.NewFromInt(-1)
	assert.ErrorIs(t, p.Validate(), apperrors.ErrValidation)

	p = domain.DefaultLoanPolicy()
	p.RenewalExtensionDays = 0
	assert.ErrorIs(t, p.Validate(), apperrors.ErrValidation)
}

func TestLoanPolicy_DecideIssue(t *testing.T) {
	policy := domain.DefaultLoanPolicy()
	today := date(t, "2024-08-15")
	due := date(t, "2024-09-15")
	book := domain.Book{BookID: "b1", TotalCopies: 2, AvailableCopies: 1}
	borrower := domain.Borrower{BorrowerID: "r1", Status: domain.BorrowerActive}

	require.NoError(t, policy.DecideIssue(book, borrower, due, today))

	noCopies := book
	noCopies.AvailableCopies = 0
	assert.ErrorIs(t, policy.DecideIssue(noCopies, borrower, due, today), apperrors.ErrUnavailableBook)

	suspended := borrower
	suspended.Status = domain.BorrowerSuspended
	assert.ErrorIs(t, policy.DecideIssue(book, suspended, due, today), apperrors.ErrIneligibleBorrower)

	expired := borrower
	expired.Status = domain.BorrowerExpired
	assert.ErrorIs(t, policy.DecideIssue(book, expired, due, today), apperrors.ErrIneligibleBorrower)

	assert.ErrorIs(t, policy.DecideIssue(book, borrower, date(t, "2024-08-14"), today), apperrors.ErrValidation)
	assert.NoError(t, policy.DecideIssue(book, borrower, today, today), "due the same day is allowed")
}

func TestLoanPolicy_DecideReturn(t *testing.T) {
	policy := domain.DefaultLoanPolicy()
	loan := domain.Loan{LoanID: "l1", DueDate: date(t, "2024-09-15")}

	fine, err := policy.DecideReturn(loan, date(t, "2024-09-10"))
	require.NoError(t, err)
	assert.True(t, fine.IsZero())

	fine, err = policy.DecideReturn(loan, date(t, "2024-10-16"))
	require.NoError(t, err)
	assert.Equal(t, "15.5", fine.String())

	returned := date(t, "2024-09-10")
	loan.ReturnDate = &returned
	_, err = policy.DecideReturn(loan, date(t, "2024-09-11"))
	assert.ErrorIs(t, err, apperrors.ErrAlreadyReturned)
}

func TestLoanPolicy_DecideRenew(t *testing.T) {
	policy := domain.DefaultLoanPolicy()
	today := date(t, "2024-09-01")
	loan := domain.Loan{LoanID: "l1", DueDate: date(t, "2024-09-15")}

	newDue, err := policy.DecideRenew(loan, today, 0)
	require.NoError(t, err)
	assert.Equal(t, date(t, "2024-10-01"), newDue)

	newDue, err = policy.DecideRenew(loan, today, 7)
	require.NoError(t, err)
	assert.Equal(t, date(t, "2024-09-08"), newDue)

	_, err = policy.DecideRenew(loan, today, 400)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	capped := loan
	capped.RenewalCount = 2
	_, err = policy.DecideRenew(capped, today, 0)
	assert.ErrorIs(t, err, apperrors.ErrRenewalLimitExceeded)

	_, err = policy.DecideRenew(loan, date(t, "2024-09-16"), 0)
	assert.ErrorIs(t, err, apperrors.ErrLoanOverdue)

	returned := today
	done := loan
	done.ReturnDate = &returned
	done.RenewalCount = 2
	_, err = policy.DecideRenew(done, today, 0)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyReturned, "returned is reported before the renewal cap")
}
