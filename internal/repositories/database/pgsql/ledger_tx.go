package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/library_management_app/internal/models"
	"github.com/jackc/pgx/v5"
)

// pgxLedgerTx implements LedgerTx on one open transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

func (t *pgxLedgerTx) FindBookForUpdate(ctx context.Context, bookID string) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE book_id = $1 FOR UPDATE;`
	rows, _ := t.tx.Query(ctx, query, bookID)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Book])
	if err != nil {
		return nil, notFound(err, "book "+bookID)
	}
	book := toDomainBook(m)
	return &book, nil
}

func (t *pgxLedgerTx) UpdateBook(ctx context.Context, book domain.Book) error {
	m := toModelBook(book)
	query := `
		UPDATE books
		SET title = $2, author = $3, isbn = $4, category = $5, published_year = $6,
			total_copies = $7, available_copies = $8, last_updated_at = $9, last_updated_by = $10
		WHERE book_id = $1;`

	tag, err := t.tx.Exec(ctx, query,
		m.BookID, m.Title, m.Author, m.ISBN, m.Category, m.PublishedYear,
		m.TotalCopies, m.AvailableCopies, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to update book "+m.BookID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("book %s: %w", m.BookID, apperrors.ErrNotFound)
	}
	return nil
}

func (t *pgxLedgerTx) FindBorrowerForUpdate(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	query := `SELECT ` + borrowerColumns + ` FROM borrowers WHERE borrower_id = $1 FOR UPDATE;`
	rows, _ := t.tx.Query(ctx, query, borrowerID)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Borrower])
	if err != nil {
		return nil, notFound(err, "borrower "+borrowerID)
	}
	borrower := toDomainBorrower(m)
	return &borrower, nil
}

func (t *pgxLedgerTx) UpdateBorrower(ctx context.Context, borrower domain.Borrower) error {
	m := toModelBorrower(borrower)
	query := `
		UPDATE borrowers
		SET name = $2, email = $3, phone = $4, membership_type = $5, active_loans = $6,
			total_borrowed = $7, fines = $8, status = $9, last_updated_at = $10, last_updated_by = $11
		WHERE borrower_id = $1;`

	tag, err := t.tx.Exec(ctx, query,
		m.BorrowerID, m.Name, m.Email, m.Phone, m.MembershipType, m.ActiveLoans,
		m.TotalBorrowed, m.Fines, m.Status, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to update borrower "+m.BorrowerID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("borrower %s: %w", m.BorrowerID, apperrors.ErrNotFound)
	}
	return nil
}

func (t *pgxLedgerTx) FindLoanForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1 FOR UPDATE;`
	rows, _ := t.tx.Query(ctx, query, loanID)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Loan])
	if err != nil {
		return nil, notFound(err, "loan "+loanID)
	}
	loan := toDomainLoan(m)
	return &loan, nil
}

func (t *pgxLedgerTx) SaveLoan(ctx context.Context, loan domain.Loan) error {
	m := toModelLoan(loan)
	query := `
		INSERT INTO loans (loan_id, book_id, borrower_id, issue_date, due_date, return_date, renewal_count, fine_amount,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	_, err := t.tx.Exec(ctx, query,
		m.LoanID, m.BookID, m.BorrowerID, m.IssueDate, m.DueDate, m.ReturnDate, m.RenewalCount, m.FineAmount,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to save loan "+m.LoanID)
	}
	return nil
}

func (t *pgxLedgerTx) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	m := toModelLoan(loan)
	query := `
		UPDATE loans
		SET due_date = $2, return_date = $3, renewal_count = $4, fine_amount = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE loan_id = $1;`

	tag, err := t.tx.Exec(ctx, query,
		m.LoanID, m.DueDate, m.ReturnDate, m.RenewalCount, m.FineAmount, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to update loan "+m.LoanID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan %s: %w", m.LoanID, apperrors.ErrNotFound)
	}
	return nil
}
