package repositories

import (
	"context"

	"github.com/SscSPs/library_management_app/internal/core/domain"
)

// LoanListFilter narrows the stored loans before status is derived.
type LoanListFilter struct {
	BorrowerID string
	BookID     string
	Search     string // book title, book author or borrower name
	OpenOnly   bool   // only loans without a return date
}

// LoanReader defines read operations for loan data.
// Loans are written only through LedgerTx.
type LoanReader interface {
	// FindLoanByID retrieves a loan joined with its book and borrower names.
	FindLoanByID(ctx context.Context, loanID string) (*domain.LoanRecord, error)

	// ListLoans retrieves loan records in insertion order.
	ListLoans(ctx context.Context, filter LoanListFilter) ([]domain.LoanRecord, error)
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
}
