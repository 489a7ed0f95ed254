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

const borrowerColumns = `borrower_id, name, email, phone, membership_type, join_date, active_loans, total_borrowed,
	fines, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxBorrowerRepository struct {
	BaseRepository
}

func newPgxBorrowerRepository(pool *pgxpool.Pool) *PgxBorrowerRepository {
	return &PgxBorrowerRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BorrowerRepositoryFacade = (*PgxBorrowerRepository)(nil)

// SaveBorrower inserts a new borrower. The unique index on lower(email) yields ErrDuplicate.
func (r *PgxBorrowerRepository) SaveBorrower(ctx context.Context, borrower domain.Borrower) error {
	m := toModelBorrower(borrower)
	query := `INSERT INTO borrowers (` + borrowerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`

	_, err := r.Pool.Exec(ctx, query,
		m.BorrowerID, m.Name, m.Email, m.Phone, m.MembershipType, m.JoinDate, m.ActiveLoans, m.TotalBorrowed,
		m.Fines, m.Status, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to save borrower "+m.BorrowerID)
	}
	return nil
}

// FindBorrowerByID retrieves a borrower by its ID.
func (r *PgxBorrowerRepository) FindBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	query := `SELECT ` + borrowerColumns + ` FROM borrowers WHERE borrower_id = $1;`
	rows, _ := r.Pool.Query(ctx, query, borrowerID)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Borrower])
	if err != nil {
		return nil, notFound(err, "borrower "+borrowerID)
	}
	borrower := toDomainBorrower(m)
	return &borrower, nil
}

// ListBorrowers retrieves borrowers ordered by name.
func (r *PgxBorrowerRepository) ListBorrowers(ctx context.Context, filter portsrepo.BorrowerListFilter) ([]domain.Borrower, error) {
	ds := dialect.From("borrowers").
		Select(goqu.L(borrowerColumns)).
		Order(goqu.I("name").Asc(), goqu.I("borrower_id").Asc())

	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := likePattern(term)
		ds = ds.Where(goqu.Or(
			goqu.I("name").ILike(pattern),
			goqu.I("email").ILike(pattern),
			goqu.I("phone").ILike(pattern),
		))
	}
	if filter.MembershipType != "" {
		ds = ds.Where(goqu.Ex{"membership_type": string(filter.MembershipType)})
	}
	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": string(filter.Status)})
	}
	ds = paginate(ds, filter.Limit, filter.Offset)

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build borrower list query: %w", err)
	}

	rows, _ := r.Pool.Query(ctx, query, args...)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Borrower])
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowers: %w", err)
	}

	borrowers := make([]domain.Borrower, len(ms))
	for i, m := range ms {
		borrowers[i] = toDomainBorrower(m)
	}
	return borrowers, nil
}
