package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
	"github.com/SscSPs/library_management_app/internal/dto"
	"github.com/google/uuid"
)

type bookService struct {
	BaseService
	bookRepo  portsrepo.BookRepositoryFacade
	txManager portsrepo.TransactionManager
}

// NewBookService creates a new catalog service.
func NewBookService(bookRepo portsrepo.BookRepositoryFacade, txManager portsrepo.TransactionManager) portssvc.BookSvcFacade {
	return &bookService{
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

var _ portssvc.BookSvcFacade = (*bookService)(nil)

func (s *bookService) CreateBook(ctx context.Context, req dto.CreateBookRequest, userID string) (*domain.Book, error) {
	title := strings.TrimSpace(req.Title)
	author := strings.TrimSpace(req.Author)
	if title == "" || author == "" {
		return nil, fmt.Errorf("%w: title and author are required", apperrors.ErrValidation)
	}
	if req.TotalCopies < 1 {
		return nil, fmt.Errorf("%w: a book needs at least one copy", apperrors.ErrValidation)
	}

	now := s.Now()
	book := domain.Book{
		BookID:          uuid.NewString(),
		Title:           title,
		Author:          author,
		ISBN:            strings.TrimSpace(req.ISBN),
		Category:        strings.TrimSpace(req.Category),
		PublishedYear:   req.PublishedYear,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.bookRepo.SaveBook(ctx, book); err != nil {
		s.LogError(ctx, err, "Failed to save book", slog.String("isbn", book.ISBN))
		return nil, err
	}

	s.LogInfo(ctx, "Book created", slog.String("book_id", book.BookID), slog.Int("copies", book.TotalCopies))
	return &book, nil
}

func (s *bookService) GetBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find book by ID", slog.String("book_id", bookID))
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) ListBooks(ctx context.Context, params dto.ListBooksParams) ([]domain.Book, error) {
	books, err := s.bookRepo.ListBooks(ctx, portsrepo.BookListFilter{
		Search:   strings.TrimSpace(params.Search),
		Category: strings.TrimSpace(params.Category),
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list books")
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	if books == nil {
		return []domain.Book{}, nil
	}
	return books, nil
}

// UpdateBook runs in a ledger transaction because a change of TotalCopies
// moves AvailableCopies, which concurrent issues and returns also write.
func (s *bookService) UpdateBook(ctx context.Context, bookID string, req dto.UpdateBookRequest, userID string) (*domain.Book, error) {
	var updated domain.Book
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		book, err := tx.FindBookForUpdate(ctx, bookID)
		if err != nil {
			return err
		}

		if req.Title != nil {
			if book.Title = strings.TrimSpace(*req.Title); book.Title == "" {
				return fmt.Errorf("%w: title must not be empty", apperrors.ErrValidation)
			}
		}
		if req.Author != nil {
			if book.Author = strings.TrimSpace(*req.Author); book.Author == "" {
				return fmt.Errorf("%w: author must not be empty", apperrors.ErrValidation)
			}
		}
		if req.ISBN != nil {
			book.ISBN = strings.TrimSpace(*req.ISBN)
		}
		if req.Category != nil {
			book.Category = strings.TrimSpace(*req.Category)
		}
		if req.PublishedYear != nil {
			book.PublishedYear = *req.PublishedYear
		}
		if req.TotalCopies != nil {
			onLoan := book.CopiesOnLoan()
			if *req.TotalCopies < 1 || *req.TotalCopies < onLoan {
				return fmt.Errorf("%w: total copies %d is below the %d copies on loan",
					apperrors.ErrValidation, *req.TotalCopies, onLoan)
			}
			book.TotalCopies = *req.TotalCopies
			book.AvailableCopies = *req.TotalCopies - onLoan
		}

		stamp(&book.AuditFields, s.Now(), userID)
		if err := tx.UpdateBook(ctx, *book); err != nil {
			return err
		}
		updated = *book
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to update book", slog.String("book_id", bookID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Book updated", slog.String("book_id", bookID))
	return &updated, nil
}
