package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveBook(ctx, domain.Book{BookID: "b1", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "978-0-7432-7356-5", Category: "Fiction", TotalCopies: 3, AvailableCopies: 3}))
	require.NoError(t, s.SaveBook(ctx, domain.Book{BookID: "b2", Title: "A Brief History of Time", Author: "Stephen Hawking", Category: "Science", TotalCopies: 1, AvailableCopies: 1}))
	require.NoError(t, s.SaveBorrower(ctx, domain.Borrower{BorrowerID: "m1", Name: "John Smith", Email: "john@university.edu", MembershipType: domain.MembershipStudent, Status: domain.BorrowerActive, Fines: decimal.Zero}))
	require.NoError(t, s.SaveBorrower(ctx, domain.Borrower{BorrowerID: "m2", Name: "Alice Brown", Email: "alice@example.com", MembershipType: domain.MembershipPublic, Status: domain.BorrowerActive, Fines: decimal.Zero}))
	return s
}

func issue(t *testing.T, s *Store, loanID, bookID, borrowerID string) {
	t.Helper()
	err := s.RunInTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		issued := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
		return tx.SaveLoan(ctx, domain.Loan{LoanID: loanID, BookID: bookID, BorrowerID: borrowerID, IssueDate: issued, DueDate: issued.AddDate(0, 0, 30)})
	})
	require.NoError(t, err)
}

func TestListBooks(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	all, err := s.ListBooks(ctx, portsrepo.BookListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b2", all[0].BookID, "ordered by title")

	byAuthor, err := s.ListBooks(ctx, portsrepo.BookListFilter{Search: "hawking"})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "b2", byAuthor[0].BookID)

	byCategory, err := s.ListBooks(ctx, portsrepo.BookListFilter{Category: "fiction"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)

	page, err := s.ListBooks(ctx, portsrepo.BookListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b1", page[0].BookID)

	_, err = s.FindBookByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveBorrower_DuplicateEmail(t *testing.T) {
	s := seedStore(t)
	err := s.SaveBorrower(context.Background(), domain.Borrower{BorrowerID: "m3", Name: "Other John", Email: "JOHN@university.edu"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestRunInTx_CommitsAllWrites(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		book, err := tx.FindBookForUpdate(ctx, "b1")
		require.NoError(t, err)
		book.AvailableCopies--
		require.NoError(t, tx.UpdateBook(ctx, *book))

		again, err := tx.FindBookForUpdate(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, 2, again.AvailableCopies, "tx reads its own writes")
		return tx.SaveLoan(ctx, domain.Loan{LoanID: "l1", BookID: "b1", BorrowerID: "m1"})
	})
	require.NoError(t, err)

	book, err := s.FindBookByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 2, book.AvailableCopies)

	rec, err := s.FindLoanByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "The Great Gatsby", rec.BookTitle)
	assert.Equal(t, "John Smith", rec.BorrowerName)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		book, _ := tx.FindBookForUpdate(ctx, "b1")
		book.AvailableCopies = 0
		require.NoError(t, tx.UpdateBook(ctx, *book))
		require.NoError(t, tx.SaveLoan(ctx, domain.Loan{LoanID: "l1", BookID: "b1", BorrowerID: "m1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	book, err := s.FindBookByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 3, book.AvailableCopies)
	_, err = s.FindLoanByID(ctx, "l1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	loans, err := s.ListLoans(ctx, portsrepo.LoanListFilter{})
	require.NoError(t, err)
	assert.Empty(t, loans)
}

func TestRunInTx_CancelledContext(t *testing.T) {
	s := seedStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestLedgerTx_UpdateBorrowerRejectsTakenEmail(t *testing.T) {
	s := seedStore(t)
	err := s.RunInTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		b, err := tx.FindBorrowerForUpdate(ctx, "m2")
		if err != nil {
			return err
		}
		b.Email = "john@university.edu"
		return tx.UpdateBorrower(ctx, *b)
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestLedgerTx_DuplicateLoan(t *testing.T) {
	s := seedStore(t)
	issue(t, s, "l1", "b1", "m1")
	err := s.RunInTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.SaveLoan(ctx, domain.Loan{LoanID: "l1", BookID: "b2", BorrowerID: "m2"})
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestListLoans_FiltersAndInsertionOrder(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	issue(t, s, "l1", "b1", "m1")
	issue(t, s, "l2", "b2", "m2")
	issue(t, s, "l3", "b1", "m2")

	err := s.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		l, err := tx.FindLoanForUpdate(ctx, "l1")
		if err != nil {
			return err
		}
		returned := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
		l.ReturnDate = &returned
		return tx.UpdateLoan(ctx, *l)
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter portsrepo.LoanListFilter
		want   []string
	}{
		{"all", portsrepo.LoanListFilter{}, []string{"l1", "l2", "l3"}},
		{"open only", portsrepo.LoanListFilter{OpenOnly: true}, []string{"l2", "l3"}},
		{"by borrower", portsrepo.LoanListFilter{BorrowerID: "m2"}, []string{"l2", "l3"}},
		{"by book", portsrepo.LoanListFilter{BookID: "b1"}, []string{"l1", "l3"}},
		{"search borrower name", portsrepo.LoanListFilter{Search: "alice"}, []string{"l2", "l3"}},
		{"search author", portsrepo.LoanListFilter{Search: "FITZGERALD"}, []string{"l1", "l3"}},
		{"no match", portsrepo.LoanListFilter{Search: "tolkien"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := s.ListLoans(ctx, tt.filter)
			require.NoError(t, err)
			got := make([]string, 0, len(recs))
			for _, r := range recs {
				got = append(got, r.LoanID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
