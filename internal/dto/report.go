package dto

import (
	"time"

	"github.com/SscSPs/library_management_app/internal/core/domain"
)

// CirculationReportParams defines the date range of the circulation report.
// Either bound may be omitted; the service fills in the default window.
type CirculationReportParams struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// Range parses the bounds, leaving omitted ones as the zero time.
func (p CirculationReportParams) Range() (from, to time.Time, err error) {
	if p.From != "" {
		if from, err = domain.ParseDate(p.From); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if p.To != "" {
		if to, err = domain.ParseDate(p.To); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}
