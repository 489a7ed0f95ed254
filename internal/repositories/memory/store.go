// Package memory is an in-process implementation of every repository port.
// It backs the development server and the service tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
)

// Store keeps books, borrowers and loans in maps guarded by one RWMutex.
// A ledger transaction holds the write lock for its whole duration and
// buffers its writes, so readers never observe a partial unit of work.
type Store struct {
	mu        sync.RWMutex
	books     map[string]domain.Book
	borrowers map[string]domain.Borrower
	loans     map[string]domain.Loan
	loanOrder []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		books:     make(map[string]domain.Book),
		borrowers: make(map[string]domain.Borrower),
		loans:     make(map[string]domain.Loan),
	}
}

// NewRepositoryProvider exposes s through the repository ports.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BookRepo:     s,
		BorrowerRepo: s,
		LoanRepo:     s,
		TxManager:    s,
	}
}

var (
	_ portsrepo.BookRepositoryFacade     = (*Store)(nil)
	_ portsrepo.BorrowerRepositoryFacade = (*Store)(nil)
	_ portsrepo.LoanRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionManager       = (*Store)(nil)
)

// --- books ---

func (s *Store) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	book, ok := s.books[bookID]
	if !ok {
		return nil, fmt.Errorf("book %s: %w", bookID, apperrors.ErrNotFound)
	}
	return &book, nil
}

func (s *Store) ListBooks(ctx context.Context, filter portsrepo.BookListFilter) ([]domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(filter.Search)
	books := make([]domain.Book, 0, len(s.books))
	for _, b := range s.books {
		if filter.Category != "" && !strings.EqualFold(b.Category, filter.Category) {
			continue
		}
		if term != "" && !containsAny(term, b.Title, b.Author, b.ISBN) {
			continue
		}
		books = append(books, b)
	}
	slices.SortFunc(books, func(a, b domain.Book) int {
		return cmp.Or(strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)), strings.Compare(a.BookID, b.BookID))
	})
	return window(books, filter.Limit, filter.Offset), nil
}

func (s *Store) SaveBook(ctx context.Context, book domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.books[book.BookID]; exists {
		return fmt.Errorf("book %s: %w", book.BookID, apperrors.ErrDuplicate)
	}
	s.books[book.BookID] = book
	return nil
}

// --- borrowers ---

func (s *Store) FindBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	borrower, ok := s.borrowers[borrowerID]
	if !ok {
		return nil, fmt.Errorf("borrower %s: %w", borrowerID, apperrors.ErrNotFound)
	}
	return &borrower, nil
}

func (s *Store) ListBorrowers(ctx context.Context, filter portsrepo.BorrowerListFilter) ([]domain.Borrower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(filter.Search)
	borrowers := make([]domain.Borrower, 0, len(s.borrowers))
	for _, b := range s.borrowers {
		if filter.MembershipType != "" && b.MembershipType != filter.MembershipType {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if term != "" && !containsAny(term, b.Name, b.Email, b.Phone) {
			continue
		}
		borrowers = append(borrowers, b)
	}
	slices.SortFunc(borrowers, func(a, b domain.Borrower) int {
		return cmp.Or(strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), strings.Compare(a.BorrowerID, b.BorrowerID))
	})
	return window(borrowers, filter.Limit, filter.Offset), nil
}

func (s *Store) SaveBorrower(ctx context.Context, borrower domain.Borrower) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.borrowers[borrower.BorrowerID]; exists {
		return fmt.Errorf("borrower %s: %w", borrower.BorrowerID, apperrors.ErrDuplicate)
	}
	if s.emailTaken(borrower.Email, borrower.BorrowerID, nil) {
		return fmt.Errorf("email %s: %w", borrower.Email, apperrors.ErrDuplicate)
	}
	s.borrowers[borrower.BorrowerID] = borrower
	return nil
}

// emailTaken reports whether another borrower already uses email. pending
// holds uncommitted rows that shadow the stored ones.
func (s *Store) emailTaken(email, exceptID string, pending map[string]domain.Borrower) bool {
	for id, b := range pending {
		if id != exceptID && strings.EqualFold(b.Email, email) {
			return true
		}
	}
	for id, b := range s.borrowers {
		if _, shadowed := pending[id]; shadowed {
			continue
		}
		if id != exceptID && strings.EqualFold(b.Email, email) {
			return true
		}
	}
	return false
}

// --- loans ---

func (s *Store) FindLoanByID(ctx context.Context, loanID string) (*domain.LoanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loan, ok := s.loans[loanID]
	if !ok {
		return nil, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
	}
	rec := s.record(loan)
	return &rec, nil
}

func (s *Store) ListLoans(ctx context.Context, filter portsrepo.LoanListFilter) ([]domain.LoanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(filter.Search)
	recs := make([]domain.LoanRecord, 0, len(s.loanOrder))
	for _, id := range s.loanOrder {
		loan := s.loans[id]
		if filter.BorrowerID != "" && loan.BorrowerID != filter.BorrowerID {
			continue
		}
		if filter.BookID != "" && loan.BookID != filter.BookID {
			continue
		}
		if filter.OpenOnly && loan.IsReturned() {
			continue
		}
		rec := s.record(loan)
		if term != "" && !containsAny(term, rec.BookTitle, rec.BookAuthor, rec.BorrowerName) {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *Store) record(loan domain.Loan) domain.LoanRecord {
	rec := domain.LoanRecord{Loan: loan}
	if b, ok := s.books[loan.BookID]; ok {
		rec.BookTitle = b.Title
		rec.BookAuthor = b.Author
	}
	if b, ok := s.borrowers[loan.BorrowerID]; ok {
		rec.BorrowerName = b.Name
	}
	return rec
}

// containsAny reports whether any field contains the lower-cased term.
func containsAny(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
