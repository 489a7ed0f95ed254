package services

import (
	"context"
	"time"

	"github.com/SscSPs/library_management_app/internal/core/domain"
)

// ReportingService defines the interface for dashboard reports
type ReportingService interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)

	// CirculationReport aggregates loan activity per month over [from, to].
	// A zero to means today; a zero from means the start of the 12-month window ending at to.
	CirculationReport(ctx context.Context, from, to time.Time) (*domain.CirculationReport, error)
}
