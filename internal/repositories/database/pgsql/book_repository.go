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

const bookColumns = `book_id, title, author, isbn, category, published_year, total_copies, available_copies,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxBookRepository struct {
	BaseRepository
}

func newPgxBookRepository(pool *pgxpool.Pool) *PgxBookRepository {
	return &PgxBookRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BookRepositoryFacade = (*PgxBookRepository)(nil)

// SaveBook inserts a new book.
func (r *PgxBookRepository) SaveBook(ctx context.Context, book domain.Book) error {
	m := toModelBook(book)
	query := `INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	_, err := r.Pool.Exec(ctx, query,
		m.BookID, m.Title, m.Author, m.ISBN, m.Category, m.PublishedYear, m.TotalCopies, m.AvailableCopies,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to save book "+m.BookID)
	}
	return nil
}

// FindBookByID retrieves a book by its ID.
func (r *PgxBookRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE book_id = $1;`
	rows, _ := r.Pool.Query(ctx, query, bookID)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Book])
	if err != nil {
		return nil, notFound(err, "book "+bookID)
	}
	book := toDomainBook(m)
	return &book, nil
}

// ListBooks retrieves books ordered by title.
func (r *PgxBookRepository) ListBooks(ctx context.Context, filter portsrepo.BookListFilter) ([]domain.Book, error) {
	ds := dialect.From("books").
		Select(goqu.L(bookColumns)).
		Order(goqu.I("title").Asc(), goqu.I("book_id").Asc())

	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := likePattern(term)
		ds = ds.Where(goqu.Or(
			goqu.I("title").ILike(pattern),
			goqu.I("author").ILike(pattern),
			goqu.I("isbn").ILike(pattern),
		))
	}
	if filter.Category != "" {
		ds = ds.Where(goqu.Func("LOWER", goqu.I("category")).Eq(strings.ToLower(filter.Category)))
	}
	ds = paginate(ds, filter.Limit, filter.Offset)

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build book list query: %w", err)
	}

	rows, _ := r.Pool.Query(ctx, query, args...)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Book])
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	books := make([]domain.Book, len(ms))
	for i, m := range ms {
		books[i] = toDomainBook(m)
	}
	return books, nil
}

// likePattern wraps term for a substring ILIKE, escaping LIKE wildcards.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

func paginate(ds *goqu.SelectDataset, limit, offset int) *goqu.SelectDataset {
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}
	return ds
}
