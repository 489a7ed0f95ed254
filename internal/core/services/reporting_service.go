package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type reportingService struct {
	BaseService
	bookRepo     portsrepo.BookReader
	borrowerRepo portsrepo.BorrowerReader
	loans        portssvc.LoanQuerySvc
}

// maxReportMonths bounds the circulation report range.
const maxReportMonths = 120

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingClock pins the clock used to derive "today".
func WithReportingClock(clock Clock) ReportingServiceOption {
	return func(s *reportingService) {
		s.Clock = clock
	}
}

// NewReportingService creates a new dashboard reporting service.
func NewReportingService(bookRepo portsrepo.BookReader, borrowerRepo portsrepo.BorrowerReader, loans portssvc.LoanQuerySvc, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		bookRepo:     bookRepo,
		borrowerRepo: borrowerRepo,
		loans:        loans,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	books, err := s.bookRepo.ListBooks(ctx, portsrepo.BookListFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list books for dashboard")
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	borrowers, err := s.borrowerRepo.ListBorrowers(ctx, portsrepo.BorrowerListFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list borrowers for dashboard")
		return nil, fmt.Errorf("failed to list borrowers: %w", err)
	}
	loans, err := s.loans.LoanSummary(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{
		Borrowers: domain.BorrowerStats{
			ByMembership: map[domain.MembershipType]int{
				domain.MembershipStudent: 0,
				domain.MembershipFaculty: 0,
				domain.MembershipPublic:  0,
			},
			OutstandingFines: decimal.Zero,
		},
		Loans: *loans,
	}

	for _, b := range books {
		stats.Catalog.TotalTitles++
		stats.Catalog.TotalCopies += b.TotalCopies
		stats.Catalog.AvailableCopies += b.AvailableCopies
	}
	for _, b := range borrowers {
		stats.Borrowers.TotalBorrowers++
		stats.Borrowers.ByMembership[b.MembershipType]++
		if b.Status == domain.BorrowerSuspended {
			stats.Borrowers.Suspended++
		}
		stats.Borrowers.OutstandingFines = stats.Borrowers.OutstandingFines.Add(b.Fines)
	}
	return stats, nil
}

func (s *reportingService) CirculationReport(ctx context.Context, from, to time.Time) (*domain.CirculationReport, error) {
	today := s.Today()
	if to.IsZero() {
		to = today
	}
	if from.IsZero() {
		from = domain.MonthOf(to).AddDate(0, -11, 0)
	}
	from, to = domain.DateOf(from), domain.DateOf(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: from %s is after to %s", apperrors.ErrValidation,
			from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	}
	if months := (to.Year()-from.Year())*12 + int(to.Month()-from.Month()) + 1; months > maxReportMonths {
		return nil, fmt.Errorf("%w: report spans %d months, at most %d allowed", apperrors.ErrValidation, months, maxReportMonths)
	}

	books, err := s.bookRepo.ListBooks(ctx, portsrepo.BookListFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list books for circulation report")
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	categories := make(map[string]string, len(books))
	for _, b := range books {
		categories[b.BookID] = b.Category
	}

	loans, err := s.loans.QueryLoans(ctx, domain.LoanQuery{})
	if err != nil {
		return nil, err
	}

	report := domain.NewCirculationReport(from, to, today)
	for v := range loans {
		report.AddLoan(v.Loan, categories[v.BookID])
	}
	slices.SortFunc(report.ByCategory, func(a, b domain.CategoryCirculation) int {
		if c := cmp.Compare(b.Loans, a.Loans); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return report, nil
}
