package services_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/domain"
	"github.com/SscSPs/library_management_app/internal/core/services"
	"github.com/SscSPs/library_management_app/internal/dto"
	"github.com/SscSPs/library_management_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Reporting runs against the loan suite's fixtures.
func (s *LoanServiceTestSuite) TestDashboardStats() {
	repos := memory.NewRepositoryProvider(s.store)
	reporting := services.NewReportingService(repos.BookRepo, repos.BorrowerRepo, s.loans)

	s.issue(s.singleID, "2024-08-20")
	v := s.issue(s.bookID, "2024-08-18")
	s.clock.Set("2024-08-28")
	_, err := s.loans.ReturnLoan(s.ctx, v.LoanID, librarian) // 10 days late
	s.Require().NoError(err)

	stats, err := reporting.DashboardStats(s.ctx)
	s.Require().NoError(err)

	s.Equal(domain.CatalogStats{TotalTitles: 2, TotalCopies: 4, AvailableCopies: 3}, stats.Catalog)
	s.Equal(2, stats.Borrowers.TotalBorrowers)
	s.Equal(1, stats.Borrowers.ByMembership[domain.MembershipStudent])
	s.Equal(1, stats.Borrowers.ByMembership[domain.MembershipPublic])
	s.Equal(0, stats.Borrowers.ByMembership[domain.MembershipFaculty])
	s.Equal(1, stats.Borrowers.Suspended)
	s.True(stats.Borrowers.OutstandingFines.Equal(decimal.NewFromInt(5)))
	s.Equal(1, stats.Loans.OverdueLoans)
	s.Equal(1, stats.Loans.ReturnedLoans)
}

func (s *LoanServiceTestSuite) TestCirculationReport() {
	repos := memory.NewRepositoryProvider(s.store)
	reporting := services.NewReportingService(repos.BookRepo, repos.BorrowerRepo, s.loans, services.WithReportingClock(s.clock.Now))

	fiction := "Fiction"
	_, err := s.books.UpdateBook(s.ctx, s.bookID, dto.UpdateBookRequest{Category: &fiction}, librarian)
	s.Require().NoError(err)

	late := s.issue(s.bookID, "2024-08-20")
	s.issue(s.singleID, "2024-09-10")
	s.clock.Set("2024-08-25")
	_, err = s.loans.ReturnLoan(s.ctx, late.LoanID, librarian) // 5 days late
	s.Require().NoError(err)

	s.clock.Set("2024-09-05")
	s.issue(s.bookID, "2024-09-06")
	s.clock.Set("2024-09-20")

	report, err := reporting.CirculationReport(s.ctx, date("2024-07-01"), date("2024-09-30"))
	s.Require().NoError(err)

	s.Equal("2024-09-20", report.AsOf.Format(domain.DateLayout))
	s.Require().Len(report.Months, 3)
	months := make(map[string]domain.MonthlyCirculation)
	for _, m := range report.Months {
		months[m.Month] = m
	}
	s.Equal(domain.MonthlyCirculation{Month: "2024-07", FinesAssessed: decimal.Zero}, months["2024-07"])

	aug := months["2024-08"]
	s.Equal(2, aug.Issued)
	s.Equal(1, aug.Returned)
	s.Equal(1, aug.Overdue)
	s.True(aug.FinesAssessed.Equal(decimal.RequireFromString("2.50")))

	sep := months["2024-09"]
	s.Equal(1, sep.Issued)
	s.Equal(0, sep.Returned)
	s.Equal(2, sep.Overdue)
	s.True(sep.FinesAssessed.IsZero())

	s.Equal([]domain.CategoryCirculation{
		{Category: "Fiction", Loans: 2},
		{Category: domain.UncategorizedBooks, Loans: 1},
	}, report.ByCategory)
}

func (s *LoanServiceTestSuite) TestCirculationReport_Range() {
	repos := memory.NewRepositoryProvider(s.store)
	reporting := services.NewReportingService(repos.BookRepo, repos.BorrowerRepo, s.loans, services.WithReportingClock(s.clock.Now))

	s.Run("defaults to the twelve months ending today", func() {
		report, err := reporting.CirculationReport(s.ctx, time.Time{}, time.Time{})
		s.Require().NoError(err)
		s.Equal("2023-09-01", report.From.Format(domain.DateLayout))
		s.Equal("2024-08-15", report.To.Format(domain.DateLayout))
		s.Require().Len(report.Months, 12)
		s.Equal("2023-09", report.Months[0].Month)
		s.Equal("2024-08", report.Months[11].Month)
		s.Empty(report.ByCategory)
	})

	s.Run("from after to", func() {
		_, err := reporting.CirculationReport(s.ctx, date("2024-09-01"), date("2024-08-01"))
		s.ErrorIs(err, apperrors.ErrValidation)
	})

	s.Run("too many months", func() {
		_, err := reporting.CirculationReport(s.ctx, date("2000-01-01"), date("2024-08-01"))
		s.ErrorIs(err, apperrors.ErrValidation)
	})
}

func (s *LoanServiceTestSuite) TestOverdueMonitor_ReportsNewlyOverdueOnce() {
	monitor := services.NewOverdueMonitor(s.loans, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))

	first := s.issue(s.bookID, "2024-08-20")
	second := s.issue(s.singleID, "2024-08-25")

	s.clock.Set("2024-08-22")
	snapshot, fresh, err := monitor.Scan(s.ctx)
	s.Require().NoError(err)
	s.Len(snapshot.Loans, 1)
	s.Require().Len(fresh, 1)
	s.Equal(first.LoanID, fresh[0].LoanID)

	s.clock.Set("2024-08-27")
	snapshot, fresh, err = monitor.Scan(s.ctx)
	s.Require().NoError(err)
	s.Len(snapshot.Loans, 2)
	s.Require().Len(fresh, 1)
	s.Equal(second.LoanID, fresh[0].LoanID)

	// Scanning never assesses fines.
	got, err := s.loans.GetLoan(s.ctx, first.LoanID)
	s.Require().NoError(err)
	s.True(got.FineAmount.IsZero())
	s.True(s.borrower(s.activeID).Fines.IsZero())
}

func (s *LoanServiceTestSuite) TestOverdueMonitor_RunStopsOnCancel() {
	monitor := services.NewOverdueMonitor(s.loans, time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(s.ctx)

	done := make(chan struct{})
	go func() {
		monitor.Run(ctx)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("monitor did not stop")
	}
}
