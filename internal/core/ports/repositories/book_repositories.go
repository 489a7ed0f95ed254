package repositories

import (
	"context"

	"github.com/SscSPs/library_management_app/internal/core/domain"
)

// BookListFilter narrows a catalog listing. Limit 0 means no limit.
type BookListFilter struct {
	Search   string // title, author or ISBN
	Category string
	Limit    int
	Offset   int
}

// BookReader defines read operations for book data
type BookReader interface {
	// FindBookByID retrieves a specific book by its unique identifier.
	FindBookByID(ctx context.Context, bookID string) (*domain.Book, error)

	// ListBooks retrieves books matching the filter ordered by title.
	ListBooks(ctx context.Context, filter BookListFilter) ([]domain.Book, error)
}

// BookWriter defines write operations for book data
type BookWriter interface {
	// SaveBook persists a new book.
	SaveBook(ctx context.Context, book domain.Book) error
}

// BookRepositoryFacade combines all book-related repository interfaces
type BookRepositoryFacade interface {
	BookReader
	BookWriter
}
