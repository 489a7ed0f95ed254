package dto

import (
	"time"

	"github.com/SscSPs/library_management_app/internal/core/domain"
)

// formatDate renders a calendar date as YYYY-MM-DD.
func formatDate(t time.Time) string {
	return domain.DateOf(t).Format(domain.DateLayout)
}

// formatDatePtr renders an optional calendar date, nil stays nil.
func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}
