package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/library_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
)

// OverdueMonitor periodically re-derives overdue loans and logs what changed.
// It only reads; fines are frozen on return and nowhere else.
type OverdueMonitor struct {
	BaseService
	loans    portssvc.LoanQuerySvc
	interval time.Duration
	logger   *slog.Logger
	known    map[string]struct{}
}

// NewOverdueMonitor creates a monitor that scans every interval.
func NewOverdueMonitor(loans portssvc.LoanQuerySvc, interval time.Duration, logger *slog.Logger) *OverdueMonitor {
	return &OverdueMonitor{
		loans:    loans,
		interval: interval,
		logger:   logger.With(slog.String("component", "overdue_monitor")),
		known:    make(map[string]struct{}),
	}
}

// Run scans once immediately and then on every tick until ctx is cancelled.
func (m *OverdueMonitor) Run(ctx context.Context) {
	if m.interval <= 0 {
		m.logger.Info("Overdue monitor disabled")
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("Overdue monitor started", slog.Duration("interval", m.interval))
	for {
		if _, _, err := m.Scan(ctx); err != nil && ctx.Err() == nil {
			m.logger.Error("Overdue scan failed", slog.String("error", err.Error()))
		}
		select {
		case <-ctx.Done():
			m.logger.Info("Overdue monitor stopped")
			return
		case <-ticker.C:
		}
	}
}

// Scan refreshes the overdue snapshot and returns it together with the loans
// that were not overdue on the previous scan.
func (m *OverdueMonitor) Scan(ctx context.Context) (*domain.OverdueSnapshot, []domain.LoanView, error) {
	snapshot, err := m.loans.OverdueSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	current := make(map[string]struct{}, len(snapshot.Loans))
	var newlyOverdue []domain.LoanView
	for _, v := range snapshot.Loans {
		current[v.LoanID] = struct{}{}
		if _, seen := m.known[v.LoanID]; !seen {
			newlyOverdue = append(newlyOverdue, v)
			m.logger.Warn("Loan became overdue",
				slog.String("loan_id", v.LoanID),
				slog.String("borrower", v.BorrowerName),
				slog.String("book", v.BookTitle),
				slog.Int("overdue_days", v.OverdueDays),
				slog.String("projected_fine", v.ProjectedFine.StringFixed(2)))
		}
	}
	m.known = current

	m.logger.Info("Overdue scan completed",
		slog.String("as_of", snapshot.AsOf.Format(domain.DateLayout)),
		slog.Int("overdue_loans", len(snapshot.Loans)),
		slog.Int("newly_overdue", len(newlyOverdue)),
		slog.String("projected_fines", snapshot.ProjectedFines.StringFixed(2)))
	return snapshot, newlyOverdue, nil
}
