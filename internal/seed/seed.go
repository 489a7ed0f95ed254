// Package seed loads the demo catalog, borrower directory and loan history.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/library_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

//go:embed demo_data.json
var demoData []byte

// BookSeed is one catalog title. All copies start on the shelf.
type BookSeed struct {
	Key           string `json:"key"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	Category      string `json:"category"`
	PublishedYear int    `json:"publishedYear"`
	TotalCopies   int    `json:"totalCopies"`
}

// BorrowerSeed is one member. TotalBorrowed and Fines are the history
// before the seeded loans; the loans add to them.
type BorrowerSeed struct {
	Key            string                `json:"key"`
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	Phone          string                `json:"phone"`
	MembershipType domain.MembershipType `json:"membershipType"`
	JoinDate       string                `json:"joinDate"`
	TotalBorrowed  int                   `json:"totalBorrowed"`
	Fines          decimal.Decimal       `json:"fines"`
	Status         domain.BorrowerStatus `json:"status"`
}

// LoanSeed places a loan relative to the seeding day so the demo always
// shows a mix of statuses.
type LoanSeed struct {
	Book            string `json:"book"`
	Borrower        string `json:"borrower"`
	IssuedDaysAgo   int    `json:"issuedDaysAgo"`
	DueInDays       int    `json:"dueInDays"`
	ReturnedDaysAgo *int   `json:"returnedDaysAgo,omitempty"`
	RenewalCount    int    `json:"renewalCount"`
}

// Data is a parsed seed file.
type Data struct {
	Books     []BookSeed     `json:"books"`
	Borrowers []BorrowerSeed `json:"borrowers"`
	Loans     []LoanSeed     `json:"loans"`
}

// Options controls how a seed is applied.
type Options struct {
	UserID string
	Today  time.Time
	Policy domain.LoanPolicy
}

// Result reports what Load wrote.
type Result struct {
	Skipped   bool
	Books     int
	Borrowers int
	Loans     int
}

// DemoData returns the embedded demo data set.
func DemoData() (*Data, error) {
	return Parse(demoData)
}

// Parse decodes and checks a seed file. Every loan must reference a seeded
// book and borrower by key.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}

	books := make(map[string]int, len(data.Books))
	for _, b := range data.Books {
		if b.Key == "" || b.TotalCopies < 1 {
			return nil, fmt.Errorf("seed book %q: key and at least one copy are required", b.Title)
		}
		books[b.Key] = b.TotalCopies
	}
	borrowers := make(map[string]bool, len(data.Borrowers))
	for _, b := range data.Borrowers {
		if b.Key == "" || !domain.IsValidMembershipType(b.MembershipType) || !domain.IsValidBorrowerStatus(b.Status) {
			return nil, fmt.Errorf("seed borrower %q: invalid key, membership or status", b.Name)
		}
		if _, err := domain.ParseDate(b.JoinDate); err != nil {
			return nil, fmt.Errorf("seed borrower %q: %w", b.Name, err)
		}
		borrowers[b.Key] = true
	}
	for i, l := range data.Loans {
		if _, ok := books[l.Book]; !ok {
			return nil, fmt.Errorf("seed loan %d: unknown book %q", i, l.Book)
		}
		if !borrowers[l.Borrower] {
			return nil, fmt.Errorf("seed loan %d: unknown borrower %q", i, l.Borrower)
		}
		if l.IssuedDaysAgo+l.DueInDays <= 0 {
			return nil, fmt.Errorf("seed loan %d: due date must be after issue date", i)
		}
		if l.RenewalCount < 0 {
			return nil, fmt.Errorf("seed loan %d: negative renewal count", i)
		}
		if l.ReturnedDaysAgo == nil {
			if books[l.Book]--; books[l.Book] < 0 {
				return nil, fmt.Errorf("seed loan %d: book %q has no copy left", i, l.Book)
			}
		} else if *l.ReturnedDaysAgo > l.IssuedDaysAgo || *l.ReturnedDaysAgo < 0 {
			return nil, fmt.Errorf("seed loan %d: return must fall between issue and today", i)
		}
	}
	return &data, nil
}

// Load writes data into an empty store. A store that already holds books is
// left untouched and reported as skipped. Loans go through the ledger
// transaction so the book and borrower counters agree with them.
func Load(ctx context.Context, repos portsrepo.RepositoryProvider, data *Data, opts Options, logger *slog.Logger) (*Result, error) {
	existing, err := repos.BookRepo.ListBooks(ctx, portsrepo.BookListFilter{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Catalog not empty, skipping demo seed")
		return &Result{Skipped: true}, nil
	}

	for i, l := range data.Loans {
		if l.RenewalCount < 0 || l.RenewalCount > opts.Policy.MaxRenewals {
			return nil, fmt.Errorf("seed loan %d: renewal count %d outside 0..%d", i, l.RenewalCount, opts.Policy.MaxRenewals)
		}
	}

	now := time.Now().UTC()
	today := domain.DateOf(opts.Today)
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: opts.UserID, LastUpdatedAt: now, LastUpdatedBy: opts.UserID}
	result := &Result{}

	bookIDs := make(map[string]string, len(data.Books))
	for _, b := range data.Books {
		book := domain.Book{
			BookID:          uuid.NewString(),
			Title:           b.Title,
			Author:          b.Author,
			ISBN:            b.ISBN,
			Category:        b.Category,
			PublishedYear:   b.PublishedYear,
			TotalCopies:     b.TotalCopies,
			AvailableCopies: b.TotalCopies,
			AuditFields:     audit,
		}
		if err := repos.BookRepo.SaveBook(ctx, book); err != nil {
			return nil, fmt.Errorf("seed book %q: %w", b.Title, err)
		}
		bookIDs[b.Key] = book.BookID
		result.Books++
	}

	borrowerIDs := make(map[string]string, len(data.Borrowers))
	for _, b := range data.Borrowers {
		joinDate, _ := domain.ParseDate(b.JoinDate)
		borrower := domain.Borrower{
			BorrowerID:     uuid.NewString(),
			Name:           b.Name,
			Email:          b.Email,
			Phone:          b.Phone,
			MembershipType: b.MembershipType,
			JoinDate:       joinDate,
			TotalBorrowed:  b.TotalBorrowed,
			Fines:          b.Fines,
			Status:         b.Status,
			AuditFields:    audit,
		}
		if err := repos.BorrowerRepo.SaveBorrower(ctx, borrower); err != nil {
			return nil, fmt.Errorf("seed borrower %q: %w", b.Name, err)
		}
		borrowerIDs[b.Key] = borrower.BorrowerID
		result.Borrowers++
	}

	for _, l := range data.Loans {
		err := repos.TxManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			return applyLoan(ctx, tx, l, bookIDs[l.Book], borrowerIDs[l.Borrower], today, opts.Policy, audit)
		})
		if err != nil {
			return nil, fmt.Errorf("seed loan of %q to %q: %w", l.Book, l.Borrower, err)
		}
		result.Loans++
	}

	logger.Info("Demo data seeded",
		slog.Int("books", result.Books),
		slog.Int("borrowers", result.Borrowers),
		slog.Int("loans", result.Loans))
	return result, nil
}

func applyLoan(ctx context.Context, tx portsrepo.LedgerTx, l LoanSeed, bookID, borrowerID string, today time.Time, policy domain.LoanPolicy, audit domain.AuditFields) error {
	book, err := tx.FindBookForUpdate(ctx, bookID)
	if err != nil {
		return err
	}
	borrower, err := tx.FindBorrowerForUpdate(ctx, borrowerID)
	if err != nil {
		return err
	}

	loan := domain.Loan{
		LoanID:       uuid.NewString(),
		BookID:       bookID,
		BorrowerID:   borrowerID,
		IssueDate:    domain.AddDays(today, -l.IssuedDaysAgo),
		DueDate:      domain.AddDays(today, l.DueInDays),
		RenewalCount: l.RenewalCount,
		FineAmount:   decimal.Zero,
		AuditFields:  audit,
	}
	borrower.TotalBorrowed++

	if l.ReturnedDaysAgo != nil {
		returned := domain.AddDays(today, -*l.ReturnedDaysAgo)
		loan.ReturnDate = &returned
		loan.FineAmount = policy.FineFor(domain.OverdueDays(loan, returned))
		borrower.Fines = borrower.Fines.Add(loan.FineAmount)
	} else {
		if book.AvailableCopies < 1 {
			return fmt.Errorf("book %s has no available copy", bookID)
		}
		book.AvailableCopies--
		borrower.ActiveLoans++
		if err := tx.UpdateBook(ctx, *book); err != nil {
			return err
		}
	}

	if err := tx.SaveLoan(ctx, loan); err != nil {
		return err
	}
	return tx.UpdateBorrower(ctx, *borrower)
}
