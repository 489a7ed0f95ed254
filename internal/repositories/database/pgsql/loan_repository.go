package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/library_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/library_management_app/internal/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const loanColumns = `seq, loan_id, book_id, borrower_id, issue_date, due_date, return_date, renewal_count, fine_amount,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

func newPgxLoanRepository(pool *pgxpool.Pool) *PgxLoanRepository {
	return &PgxLoanRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

// loanRecordQuery selects loans joined with the searchable book and borrower names.
func loanRecordQuery() *goqu.SelectDataset {
	return dialect.From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.book_id").Eq(goqu.I("l.book_id")))).
		Join(goqu.T("borrowers").As("m"), goqu.On(goqu.I("m.borrower_id").Eq(goqu.I("l.borrower_id")))).
		Select(
			goqu.I("l.seq"), goqu.I("l.loan_id"), goqu.I("l.book_id"), goqu.I("l.borrower_id"),
			goqu.I("l.issue_date"), goqu.I("l.due_date"), goqu.I("l.return_date"),
			goqu.I("l.renewal_count"), goqu.I("l.fine_amount"),
			goqu.I("l.created_at"), goqu.I("l.created_by"), goqu.I("l.last_updated_at"), goqu.I("l.last_updated_by"),
			goqu.I("b.title").As("book_title"),
			goqu.I("b.author").As("book_author"),
			goqu.I("m.name").As("borrower_name"),
		)
}

// FindLoanByID retrieves a loan joined with its book and borrower names.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.LoanRecord, error) {
	query, args, err := loanRecordQuery().Where(goqu.I("l.loan_id").Eq(loanID)).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build loan query: %w", err)
	}

	rows, _ := r.Pool.Query(ctx, query, args...)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.LoanRecord])
	if err != nil {
		return nil, notFound(err, "loan "+loanID)
	}
	rec := toDomainLoanRecord(m)
	return &rec, nil
}

// ListLoans retrieves loan records in insertion order.
func (r *PgxLoanRepository) ListLoans(ctx context.Context, filter portsrepo.LoanListFilter) ([]domain.LoanRecord, error) {
	ds := loanRecordQuery().Order(goqu.I("l.seq").Asc())

	if filter.BorrowerID != "" {
		ds = ds.Where(goqu.I("l.borrower_id").Eq(filter.BorrowerID))
	}
	if filter.BookID != "" {
		ds = ds.Where(goqu.I("l.book_id").Eq(filter.BookID))
	}
	if filter.OpenOnly {
		ds = ds.Where(goqu.I("l.return_date").IsNull())
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := likePattern(term)
		ds = ds.Where(goqu.Or(
			goqu.I("b.title").ILike(pattern),
			goqu.I("b.author").ILike(pattern),
			goqu.I("m.name").ILike(pattern),
		))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build loan list query: %w", err)
	}

	rows, _ := r.Pool.Query(ctx, query, args...)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LoanRecord])
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	recs := make([]domain.LoanRecord, len(ms))
	for i, m := range ms {
		recs[i] = toDomainLoanRecord(m)
	}
	return recs, nil
}
