package services

import (
	"context"

	"github.com/SscSPs/library_management_app/internal/core/domain"
	"github.com/SscSPs/library_management_app/internal/dto"
)

// BookReaderSvc defines read operations of the catalog.
type BookReaderSvc interface {
	// GetBookByID retrieves a specific book by its unique identifier.
	GetBookByID(ctx context.Context, bookID string) (*domain.Book, error)

	// ListBooks retrieves books matching the search parameters.
	ListBooks(ctx context.Context, params dto.ListBooksParams) ([]domain.Book, error)
}

// BookWriterSvc defines write operations of the catalog.
type BookWriterSvc interface {
	// CreateBook adds a title with all copies available.
	CreateBook(ctx context.Context, req dto.CreateBookRequest, userID string) (*domain.Book, error)

	// UpdateBook edits book metadata. Changing TotalCopies shifts AvailableCopies by the same delta.
	UpdateBook(ctx context.Context, bookID string, req dto.UpdateBookRequest, userID string) (*domain.Book, error)
}

// BookSvcFacade combines all book-related service interfaces
type BookSvcFacade interface {
	BookReaderSvc
	BookWriterSvc
}
