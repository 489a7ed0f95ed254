package services_test

import (
	"context"

	"github.com/SscSPs/library_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock BookRepository ---
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	args := m.Called(ctx, bookID)
	var book *domain.Book
	if args.Get(0) != nil {
		book = args.Get(0).(*domain.Book)
	}
	return book, args.Error(1)
}

func (m *MockBookRepository) ListBooks(ctx context.Context, filter portsrepo.BookListFilter) ([]domain.Book, error) {
	args := m.Called(ctx, filter)
	var books []domain.Book
	if args.Get(0) != nil {
		books = args.Get(0).([]domain.Book)
	}
	return books, args.Error(1)
}

func (m *MockBookRepository) SaveBook(ctx context.Context, book domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

// --- Mock BorrowerRepository ---
type MockBorrowerRepository struct {
	mock.Mock
}

func (m *MockBorrowerRepository) FindBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	args := m.Called(ctx, borrowerID)
	var borrower *domain.Borrower
	if args.Get(0) != nil {
		borrower = args.Get(0).(*domain.Borrower)
	}
	return borrower, args.Error(1)
}

func (m *MockBorrowerRepository) ListBorrowers(ctx context.Context, filter portsrepo.BorrowerListFilter) ([]domain.Borrower, error) {
	args := m.Called(ctx, filter)
	var borrowers []domain.Borrower
	if args.Get(0) != nil {
		borrowers = args.Get(0).([]domain.Borrower)
	}
	return borrowers, args.Error(1)
}

func (m *MockBorrowerRepository) SaveBorrower(ctx context.Context, borrower domain.Borrower) error {
	args := m.Called(ctx, borrower)
	return args.Error(0)
}

// --- Mock LedgerTx ---
type MockLedgerTx struct {
	mock.Mock
}

func (m *MockLedgerTx) FindBookForUpdate(ctx context.Context, bookID string) (*domain.Book, error) {
	args := m.Called(ctx, bookID)
	var book *domain.Book
	if args.Get(0) != nil {
		// Hand out a copy, the service mutates what it gets.
		b := *args.Get(0).(*domain.Book)
		book = &b
	}
	return book, args.Error(1)
}

func (m *MockLedgerTx) UpdateBook(ctx context.Context, book domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockLedgerTx) FindBorrowerForUpdate(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	args := m.Called(ctx, borrowerID)
	var borrower *domain.Borrower
	if args.Get(0) != nil {
		b := *args.Get(0).(*domain.Borrower)
		borrower = &b
	}
	return borrower, args.Error(1)
}

func (m *MockLedgerTx) UpdateBorrower(ctx context.Context, borrower domain.Borrower) error {
	args := m.Called(ctx, borrower)
	return args.Error(0)
}

func (m *MockLedgerTx) FindLoanForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	var loan *domain.Loan
	if args.Get(0) != nil {
		l := *args.Get(0).(*domain.Loan)
		loan = &l
	}
	return loan, args.Error(1)
}

func (m *MockLedgerTx) SaveLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLedgerTx) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

// MockTxManager runs the unit of work directly against Tx.
type MockTxManager struct {
	Tx *MockLedgerTx
}

func (m *MockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return fn(ctx, m.Tx)
}

var (
	_ portsrepo.BookRepositoryFacade     = (*MockBookRepository)(nil)
	_ portsrepo.BorrowerRepositoryFacade = (*MockBorrowerRepository)(nil)
	_ portsrepo.LedgerTx                 = (*MockLedgerTx)(nil)
	_ portsrepo.TransactionManager       = (*MockTxManager)(nil)
)
