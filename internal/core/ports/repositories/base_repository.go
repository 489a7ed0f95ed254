package repositories

import (
	"context"

	"github.com/SscSPs/library_management_app/internal/core/domain"
)

// LedgerTx is the set of locked reads and writes available inside one store
// transaction. Every Find*ForUpdate call locks the row until the transaction ends.
type LedgerTx interface {
	FindBookForUpdate(ctx context.Context, bookID string) (*domain.Book, error)
	UpdateBook(ctx context.Context, book domain.Book) error

	FindBorrowerForUpdate(ctx context.Context, borrowerID string) (*domain.Borrower, error)
	UpdateBorrower(ctx context.Context, borrower domain.Borrower) error

	FindLoanForUpdate(ctx context.Context, loanID string) (*domain.Loan, error)
	SaveLoan(ctx context.Context, loan domain.Loan) error
	UpdateLoan(ctx context.Context, loan domain.Loan) error
}

// TransactionManager runs a unit of work atomically.
// If fn returns an error nothing it wrote is kept.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
