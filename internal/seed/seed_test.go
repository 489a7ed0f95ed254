package seed_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/library_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/library_management_app/internal/core/services"
	"github.com/SscSPs/library_management_app/internal/repositories/memory"
	"github.com/SscSPs/library_management_app/internal/seed"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedDay = time.Date(2024, 9, 5, 10, 30, 0, 0, time.UTC)

func loadDemo(t *testing.T) (portsrepo.RepositoryProvider, *seed.Result) {
	t.Helper()
	data, err := seed.DemoData()
	require.NoError(t, err)

	repos := memory.NewRepositoryProvider(memory.NewStore())
	opts := seed.Options{UserID: "librarian", Today: seedDay, Policy: domain.DefaultLoanPolicy()}
	res, err := seed.Load(context.Background(), repos, data, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return repos, res
}

func TestLoad_DemoData(t *testing.T) {
	repos, res := loadDemo(t)
	ctx := context.Background()

	assert.Equal(t, &seed.Result{Books: 4, Borrowers: 4, Loans: 4}, res)

	books, err := repos.BookRepo.ListBooks(ctx, portsrepo.BookListFilter{})
	require.NoError(t, err)
	available := make(map[string][2]int)
	for _, b := range books {
		available[b.Title] = [2]int{b.AvailableCopies, b.TotalCopies}
	}
	assert.Equal(t, [2]int{4, 5}, available["The Great Gatsby"])
	assert.Equal(t, [2]int{2, 3}, available["To Kill a Mockingbird"])
	assert.Equal(t, [2]int{1, 2}, available["Introduction to Algorithms"])
	assert.Equal(t, [2]int{4, 4}, available["Pride and Prejudice"])

	borrowers, err := repos.BorrowerRepo.ListBorrowers(ctx, portsrepo.BorrowerListFilter{Search: "mike"})
	require.NoError(t, err)
	require.Len(t, borrowers, 1)
	assert.Equal(t, 1, borrowers[0].ActiveLoans)
	assert.Equal(t, 8, borrowers[0].TotalBorrowed)
	assert.True(t, borrowers[0].Fines.Equal(decimal.RequireFromString("15.50")))

	suspended, err := repos.BorrowerRepo.ListBorrowers(ctx, portsrepo.BorrowerListFilter{Status: domain.BorrowerSuspended})
	require.NoError(t, err)
	require.Len(t, suspended, 1)
	assert.Equal(t, "Emily Davis", suspended[0].Name)
	assert.Equal(t, 0, suspended[0].ActiveLoans)
}

func TestLoad_LoansDeriveEveryStatus(t *testing.T) {
	repos, _ := loadDemo(t)
	loans := services.NewLoanService(repos.LoanRepo, repos.TxManager,
		services.WithLoanClock(func() time.Time { return seedDay }))

	summary, err := loans.LoanSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalLoans)
	assert.Equal(t, 2, summary.ActiveLoans)
	assert.Equal(t, 1, summary.RenewedLoans)
	assert.Equal(t, 1, summary.OverdueLoans)
	assert.Equal(t, 1, summary.ReturnedLoans)
	assert.True(t, summary.FinesAssessed.IsZero())
	assert.True(t, summary.ProjectedFines.Equal(decimal.RequireFromString("13.00")), summary.ProjectedFines.String())
}

func TestLoad_SkipsNonEmptyCatalog(t *testing.T) {
	repos, _ := loadDemo(t)
	data, err := seed.DemoData()
	require.NoError(t, err)

	res, err := seed.Load(context.Background(), repos, data, seed.Options{Today: seedDay, Policy: domain.DefaultLoanPolicy()}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	books, err := repos.BookRepo.ListBooks(context.Background(), portsrepo.BookListFilter{})
	require.NoError(t, err)
	assert.Len(t, books, 4)
}

func TestParse_RejectsInconsistentData(t *testing.T) {
	cases := map[string]string{
		"malformed":         `{"books": [`,
		"unknown book":      `{"books":[],"borrowers":[{"key":"a","name":"A","membershipType":"student","joinDate":"2024-01-01","status":"active","fines":"0"}],"loans":[{"book":"x","borrower":"a","issuedDaysAgo":1,"dueInDays":5}]}`,
		"no copies":         `{"books":[{"key":"b","title":"B","totalCopies":0}]}`,
		"bad membership":    `{"borrowers":[{"key":"a","name":"A","membershipType":"vip","joinDate":"2024-01-01","status":"active","fines":"0"}]}`,
		"oversold book":     `{"books":[{"key":"b","title":"B","totalCopies":1}],"borrowers":[{"key":"a","name":"A","membershipType":"student","joinDate":"2024-01-01","status":"active","fines":"0"}],"loans":[{"book":"b","borrower":"a","issuedDaysAgo":1,"dueInDays":5},{"book":"b","borrower":"a","issuedDaysAgo":1,"dueInDays":5}]}`,
		"due before issue":  `{"books":[{"key":"b","title":"B","totalCopies":1}],"borrowers":[{"key":"a","name":"A","membershipType":"student","joinDate":"2024-01-01","status":"active","fines":"0"}],"loans":[{"book":"b","borrower":"a","issuedDaysAgo":3,"dueInDays":-3}]}`,
		"negative renewals": `{"books":[{"key":"b","title":"B","totalCopies":1}],"borrowers":[{"key":"a","name":"A","membershipType":"student","joinDate":"2024-01-01","status":"active","fines":"0"}],"loans":[{"book":"b","borrower":"a","issuedDaysAgo":3,"dueInDays":3,"renewalCount":-1}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := seed.Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoad_RejectsRenewalsBeyondPolicy(t *testing.T) {
	data, err := seed.Parse([]byte(`{"books":[{"key":"b","title":"B","totalCopies":1}],"borrowers":[{"key":"a","name":"A","membershipType":"student","joinDate":"2024-01-01","status":"active","fines":"0"}],"loans":[{"book":"b","borrower":"a","issuedDaysAgo":3,"dueInDays":3,"renewalCount":3}]}`))
	require.NoError(t, err)

	repos := memory.NewRepositoryProvider(memory.NewStore())
	opts := seed.Options{UserID: "librarian", Today: seedDay, Policy: domain.DefaultLoanPolicy()}
	_, err = seed.Load(context.Background(), repos, data, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renewal count 3 outside 0..2")

	// Nothing is written when the loans do not fit the policy.
	books, err := repos.BookRepo.ListBooks(context.Background(), portsrepo.BookListFilter{})
	require.NoError(t, err)
	assert.Empty(t, books)
}
