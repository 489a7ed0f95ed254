package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
)

// RunInTx serialises ledger writers on the store's write lock. Writes are
// buffered in a ledgerTx and copied into the store only if fn succeeds.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &ledgerTx{
		store:     s,
		books:     make(map[string]domain.Book),
		borrowers: make(map[string]domain.Borrower),
		loans:     make(map[string]domain.Loan),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type ledgerTx struct {
	store     *Store
	books     map[string]domain.Book
	borrowers map[string]domain.Borrower
	loans     map[string]domain.Loan
	newLoans  []string
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func (tx *ledgerTx) FindBookForUpdate(ctx context.Context, bookID string) (*domain.Book, error) {
	if b, ok := tx.books[bookID]; ok {
		return &b, nil
	}
	if b, ok := tx.store.books[bookID]; ok {
		return &b, nil
	}
	return nil, fmt.Errorf("book %s: %w", bookID, apperrors.ErrNotFound)
}

func (tx *ledgerTx) UpdateBook(ctx context.Context, book domain.Book) error {
	if _, err := tx.FindBookForUpdate(ctx, book.BookID); err != nil {
		return err
	}
	tx.books[book.BookID] = book
	return nil
}

func (tx *ledgerTx) FindBorrowerForUpdate(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	if b, ok := tx.borrowers[borrowerID]; ok {
		return &b, nil
	}
	if b, ok := tx.store.borrowers[borrowerID]; ok {
		return &b, nil
	}
	return nil, fmt.Errorf("borrower %s: %w", borrowerID, apperrors.ErrNotFound)
}

func (tx *ledgerTx) UpdateBorrower(ctx context.Context, borrower domain.Borrower) error {
	if _, err := tx.FindBorrowerForUpdate(ctx, borrower.BorrowerID); err != nil {
		return err
	}
	if tx.store.emailTaken(borrower.Email, borrower.BorrowerID, tx.borrowers) {
		return fmt.Errorf("email %s: %w", borrower.Email, apperrors.ErrDuplicate)
	}
	tx.borrowers[borrower.BorrowerID] = borrower
	return nil
}

func (tx *ledgerTx) FindLoanForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if l, ok := tx.loans[loanID]; ok {
		return &l, nil
	}
	if l, ok := tx.store.loans[loanID]; ok {
		return &l, nil
	}
	return nil, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
}

func (tx *ledgerTx) SaveLoan(ctx context.Context, loan domain.Loan) error {
	if _, err := tx.FindLoanForUpdate(ctx, loan.LoanID); err == nil {
		return fmt.Errorf("loan %s: %w", loan.LoanID, apperrors.ErrDuplicate)
	}
	tx.loans[loan.LoanID] = loan
	tx.newLoans = append(tx.newLoans, loan.LoanID)
	return nil
}

func (tx *ledgerTx) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	if _, err := tx.FindLoanForUpdate(ctx, loan.LoanID); err != nil {
		return err
	}
	tx.loans[loan.LoanID] = loan
	return nil
}

// commit must run with the store's write lock held.
func (tx *ledgerTx) commit() {
	for id, b := range tx.books {
		tx.store.books[id] = b
	}
	for id, b := range tx.borrowers {
		tx.store.borrowers[id] = b
	}
	for id, l := range tx.loans {
		tx.store.loans[id] = l
	}
	tx.store.loanOrder = append(tx.store.loanOrder, tx.newLoans...)
}
