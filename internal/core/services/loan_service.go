package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
	"github.com/SscSPs/library_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// loanService is the loan ledger. It is the only writer of loans and of the
// book and borrower counters that loans affect.
type loanService struct {
	BaseService
	loanRepo  portsrepo.LoanRepositoryFacade
	txManager portsrepo.TransactionManager
	policy    domain.LoanPolicy
}

// LoanServiceOption is a functional option for configuring the loan service
type LoanServiceOption func(*loanService)

// WithLoanPolicy overrides the default lending rules.
func WithLoanPolicy(policy domain.LoanPolicy) LoanServiceOption {
	return func(s *loanService) {
		s.policy = policy
	}
}

// WithLoanClock pins the clock used to derive "today".
func WithLoanClock(clock Clock) LoanServiceOption {
	return func(s *loanService) {
		s.Clock = clock
	}
}

// NewLoanService creates a new loan ledger over the given store.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, txManager portsrepo.TransactionManager, options ...LoanServiceOption) portssvc.LoanSvcFacade {
	svc := &loanService{
		loanRepo:  loanRepo,
		txManager: txManager,
		policy:    domain.DefaultLoanPolicy(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

func (s *loanService) IssueLoan(ctx context.Context, req dto.IssueLoanRequest, userID string) (*domain.LoanView, error) {
	bookID := strings.TrimSpace(req.BookID)
	borrowerID := strings.TrimSpace(req.BorrowerID)
	if bookID == "" || borrowerID == "" {
		return nil, fmt.Errorf("%w: book and borrower are required", apperrors.ErrValidation)
	}

	now := s.Now()
	today := domain.DateOf(now)
	dueDate := domain.AddDays(today, s.policy.DefaultLoanPeriodDays)
	if req.DueDate != "" {
		parsed, err := domain.ParseDate(req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: due date must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		dueDate = parsed
	}

	var rec domain.LoanRecord
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		book, err := tx.FindBookForUpdate(ctx, bookID)
		if err != nil {
			return fmt.Errorf("failed to load book %s: %w", bookID, err)
		}
		borrower, err := tx.FindBorrowerForUpdate(ctx, borrowerID)
		if err != nil {
			return fmt.Errorf("failed to load borrower %s: %w", borrowerID, err)
		}

		if err := s.policy.DecideIssue(*book, *borrower, dueDate, today); err != nil {
			return err
		}

		loan := domain.Loan{
			LoanID:     uuid.NewString(),
			BookID:     book.BookID,
			BorrowerID: borrower.BorrowerID,
			IssueDate:  today,
			DueDate:    domain.DateOf(dueDate),
			FineAmount: decimal.Zero,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}

		book.AvailableCopies--
		stamp(&book.AuditFields, now, userID)
		borrower.ActiveLoans++
		borrower.TotalBorrowed++
		stamp(&borrower.AuditFields, now, userID)

		if err := tx.SaveLoan(ctx, loan); err != nil {
			return fmt.Errorf("failed to save loan: %w", err)
		}
		if err := tx.UpdateBook(ctx, *book); err != nil {
			return fmt.Errorf("failed to update book %s: %w", book.BookID, err)
		}
		if err := tx.UpdateBorrower(ctx, *borrower); err != nil {
			return fmt.Errorf("failed to update borrower %s: %w", borrower.BorrowerID, err)
		}

		rec = domain.LoanRecord{Loan: loan, BookTitle: book.Title, BookAuthor: book.Author, BorrowerName: borrower.Name}
		return nil
	})
	if err != nil {
		s.logLedgerFailure(ctx, err, "Loan issue rejected",
			slog.String("book_id", bookID),
			slog.String("borrower_id", borrowerID))
		return nil, err
	}

	s.LogInfo(ctx, "Loan issued",
		slog.String("loan_id", rec.LoanID),
		slog.String("book_id", rec.BookID),
		slog.String("borrower_id", rec.BorrowerID),
		slog.String("due_date", rec.DueDate.Format(domain.DateLayout)))
	view := domain.NewLoanView(rec, today, s.policy)
	return &view, nil
}

func (s *loanService) ReturnLoan(ctx context.Context, loanID string, userID string) (*domain.LoanView, error) {
	now := s.Now()
	today := domain.DateOf(now)

	var rec domain.LoanRecord
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		loan, err := s.findLoanForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}

		fine, err := s.policy.DecideReturn(*loan, today)
		if err != nil {
			return err
		}

		book, err := tx.FindBookForUpdate(ctx, loan.BookID)
		if err != nil {
			return fmt.Errorf("failed to load book %s: %w", loan.BookID, err)
		}
		borrower, err := tx.FindBorrowerForUpdate(ctx, loan.BorrowerID)
		if err != nil {
			return fmt.Errorf("failed to load borrower %s: %w", loan.BorrowerID, err)
		}
		if book.AvailableCopies >= book.TotalCopies || borrower.ActiveLoans < 1 {
			return fmt.Errorf("counters of book %s and borrower %s do not account for loan %s",
				book.BookID, borrower.BorrowerID, loan.LoanID)
		}

		loan.ReturnDate = &today
		loan.FineAmount = fine
		stamp(&loan.AuditFields, now, userID)
		book.AvailableCopies++
		stamp(&book.AuditFields, now, userID)
		borrower.ActiveLoans--
		borrower.Fines = borrower.Fines.Add(fine)
		stamp(&borrower.AuditFields, now, userID)

		if err := tx.UpdateLoan(ctx, *loan); err != nil {
			return fmt.Errorf("failed to update loan %s: %w", loan.LoanID, err)
		}
		if err := tx.UpdateBook(ctx, *book); err != nil {
			return fmt.Errorf("failed to update book %s: %w", book.BookID, err)
		}
		if err := tx.UpdateBorrower(ctx, *borrower); err != nil {
			return fmt.Errorf("failed to update borrower %s: %w", borrower.BorrowerID, err)
		}

		rec = domain.LoanRecord{Loan: *loan, BookTitle: book.Title, BookAuthor: book.Author, BorrowerName: borrower.Name}
		return nil
	})
	if err != nil {
		s.logLedgerFailure(ctx, err, "Loan return rejected", slog.String("loan_id", loanID))
		return nil, err
	}

	s.LogInfo(ctx, "Loan returned",
		slog.String("loan_id", rec.LoanID),
		slog.String("fine", rec.FineAmount.StringFixed(2)))
	view := domain.NewLoanView(rec, today, s.policy)
	return &view, nil
}

func (s *loanService) RenewLoan(ctx context.Context, loanID string, req dto.RenewLoanRequest, userID string) (*domain.LoanView, error) {
	now := s.Now()
	today := domain.DateOf(now)

	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		loan, err := s.findLoanForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}

		newDue, err := s.policy.DecideRenew(*loan, today, req.ExtensionDays)
		if err != nil {
			return err
		}

		loan.DueDate = newDue
		loan.RenewalCount++
		stamp(&loan.AuditFields, now, userID)
		if err := tx.UpdateLoan(ctx, *loan); err != nil {
			return fmt.Errorf("failed to update loan %s: %w", loan.LoanID, err)
		}
		return nil
	})
	if err != nil {
		s.logLedgerFailure(ctx, err, "Loan renewal rejected", slog.String("loan_id", loanID))
		return nil, err
	}

	rec, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		s.LogError(ctx, err, "Failed to reload renewed loan", slog.String("loan_id", loanID))
		return nil, err
	}

	s.LogInfo(ctx, "Loan renewed",
		slog.String("loan_id", rec.LoanID),
		slog.Int("renewal_count", rec.RenewalCount),
		slog.String("due_date", rec.DueDate.Format(domain.DateLayout)))
	view := domain.NewLoanView(*rec, today, s.policy)
	return &view, nil
}

func (s *loanService) GetLoan(ctx context.Context, loanID string) (*domain.LoanView, error) {
	rec, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrLoanNotFound, loanID)
		}
		s.LogError(ctx, err, "Failed to find loan by ID", slog.String("loan_id", loanID))
		return nil, err
	}
	view := domain.NewLoanView(*rec, s.Today(), s.policy)
	return &view, nil
}

// QueryLoans snapshots "today" once so every pass over the sequence derives the
// same statuses. Unsorted queries derive views lazily while iterating.
func (s *loanService) QueryLoans(ctx context.Context, q domain.LoanQuery) (iter.Seq[domain.LoanView], error) {
	if q.Status != "" && !domain.IsValidLoanStatus(q.Status) {
		return nil, fmt.Errorf("%w: unknown loan status %q", apperrors.ErrValidation, q.Status)
	}
	if !domain.IsValidLoanSortKey(q.SortBy) {
		return nil, fmt.Errorf("%w: unknown sort key %q", apperrors.ErrValidation, q.SortBy)
	}

	recs, err := s.loanRepo.ListLoans(ctx, portsrepo.LoanListFilter{
		BorrowerID: q.BorrowerID,
		BookID:     q.BookID,
		Search:     strings.TrimSpace(q.Search),
		OpenOnly:   q.Status != "" && q.Status != domain.LoanReturned,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list loans")
		return nil, err
	}

	today := s.Today()
	policy := s.policy

	if q.SortBy == domain.SortNone {
		return func(yield func(domain.LoanView) bool) {
			for _, rec := range recs {
				v := domain.NewLoanView(rec, today, policy)
				if !q.Matches(v) {
					continue
				}
				if !yield(v) {
					return
				}
			}
		}, nil
	}

	views := make([]domain.LoanView, 0, len(recs))
	for _, rec := range recs {
		if v := domain.NewLoanView(rec, today, policy); q.Matches(v) {
			views = append(views, v)
		}
	}
	slices.SortStableFunc(views, q.Compare)
	return slices.Values(views), nil
}

func (s *loanService) LoanSummary(ctx context.Context) (*domain.LoanSummary, error) {
	recs, err := s.loanRepo.ListLoans(ctx, portsrepo.LoanListFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list loans for summary")
		return nil, err
	}

	today := s.Today()
	summary := &domain.LoanSummary{AsOf: today}
	for _, rec := range recs {
		summary.Add(domain.NewLoanView(rec, today, s.policy))
	}
	return summary, nil
}

func (s *loanService) OverdueSnapshot(ctx context.Context) (*domain.OverdueSnapshot, error) {
	recs, err := s.loanRepo.ListLoans(ctx, portsrepo.LoanListFilter{OpenOnly: true})
	if err != nil {
		s.LogError(ctx, err, "Failed to list open loans")
		return nil, err
	}

	today := s.Today()
	snapshot := &domain.OverdueSnapshot{AsOf: today, Loans: []domain.LoanView{}}
	for _, rec := range recs {
		v := domain.NewLoanView(rec, today, s.policy)
		if v.Status != domain.LoanOverdue {
			continue
		}
		snapshot.Loans = append(snapshot.Loans, v)
		snapshot.ProjectedFines = snapshot.ProjectedFines.Add(v.ProjectedFine)
	}
	// Longest overdue first.
	slices.SortStableFunc(snapshot.Loans, domain.LoanQuery{SortBy: domain.SortDueDate}.Compare)
	return snapshot, nil
}

func (s *loanService) findLoanForUpdate(ctx context.Context, tx portsrepo.LedgerTx, loanID string) (*domain.Loan, error) {
	loan, err := tx.FindLoanForUpdate(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrLoanNotFound, loanID)
		}
		return nil, fmt.Errorf("failed to load loan %s: %w", loanID, err)
	}
	return loan, nil
}

// logLedgerFailure logs business rejections as warnings and everything else as errors.
func (s *loanService) logLedgerFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if isLedgerRejection(err) {
		s.LogWarn(ctx, err, msg, keyvals...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

func isLedgerRejection(err error) bool {
	for _, target := range []error{
		apperrors.ErrNotFound,
		apperrors.ErrValidation,
		apperrors.ErrUnavailableBook,
		apperrors.ErrIneligibleBorrower,
		apperrors.ErrAlreadyReturned,
		apperrors.ErrRenewalLimitExceeded,
		apperrors.ErrLoanOverdue,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func stamp(a *domain.AuditFields, now time.Time, userID string) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
}
