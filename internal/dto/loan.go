package dto

import (
	"fmt"

	"github.com/SscSPs/library_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IssueLoanRequest defines the data needed to lend a book.
type IssueLoanRequest struct {
	BookID     string `json:"bookID" binding:"required"`
	BorrowerID string `json:"borrowerID" binding:"required"`
	DueDate    string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"` // defaults to the loan period
}

// RenewLoanRequest optionally overrides the renewal extension.
type RenewLoanRequest struct {
	ExtensionDays int `json:"extensionDays" binding:"omitempty,min=1,max=365"`
}

// ListLoansParams defines query parameters for querying loans.
type ListLoansParams struct {
	Status     domain.LoanStatus  `form:"status" binding:"omitempty,loanstatus"`
	Search     string             `form:"search"`
	BorrowerID string             `form:"borrowerID"`
	BookID     string             `form:"bookID"`
	Sort       domain.LoanSortKey `form:"sort" binding:"omitempty,loansort"`
	Order      string             `form:"order" binding:"omitempty,oneof=asc desc"`
	Limit      int                `form:"limit,default=50" binding:"min=0,max=500"`
	Offset     int                `form:"offset,default=0" binding:"min=0"`
}

// ToLoanQuery converts the query parameters into a domain query.
func (p ListLoansParams) ToLoanQuery() domain.LoanQuery {
	return domain.LoanQuery{
		Status:     p.Status,
		Search:     p.Search,
		BorrowerID: p.BorrowerID,
		BookID:     p.BookID,
		SortBy:     p.Sort,
		Descending: p.Order == "desc",
	}
}

// LoanResponse is the loan view model consumed by the circulation screen.
type LoanResponse struct {
	LoanID        string            `json:"loanID"`
	BookID        string            `json:"bookID"`
	BookTitle     string            `json:"bookTitle"`
	BookAuthor    string            `json:"bookAuthor"`
	BorrowerID    string            `json:"borrowerID"`
	BorrowerName  string            `json:"borrowerName"`
	IssueDate     string            `json:"issueDate"`
	DueDate       string            `json:"dueDate"`
	ReturnDate    *string           `json:"returnDate,omitempty"`
	Status        domain.LoanStatus `json:"status"`
	RenewalCount  int               `json:"renewalCount"`
	FineAmount    decimal.Decimal   `json:"fineAmount"`
	ProjectedFine decimal.Decimal   `json:"projectedFine"`
	DaysRemaining int               `json:"daysRemaining"`
	DueLabel      string            `json:"dueLabel,omitempty"`
	AsOf          string            `json:"asOf"`
}

// ListLoansResponse wraps a page of loan views.
type ListLoansResponse struct {
	Loans []LoanResponse `json:"loans"`
	Total int            `json:"total"`
}

// DueLabel renders the days-remaining text shown next to unreturned loans.
func DueLabel(v domain.LoanView) string {
	if v.Status == domain.LoanReturned {
		return ""
	}
	switch {
	case v.DaysRemaining == 0:
		return "due today"
	case v.DaysRemaining == 1:
		return "1 day left"
	case v.DaysRemaining > 0:
		return fmt.Sprintf("%d days left", v.DaysRemaining)
	case v.DaysRemaining == -1:
		return "1 day overdue"
	default:
		return fmt.Sprintf("%d days overdue", -v.DaysRemaining)
	}
}

// ToLoanResponse converts a domain.LoanView to LoanResponse DTO
func ToLoanResponse(v *domain.LoanView) LoanResponse {
	return LoanResponse{
		LoanID:        v.LoanID,
		BookID:        v.BookID,
		BookTitle:     v.BookTitle,
		BookAuthor:    v.BookAuthor,
		BorrowerID:    v.BorrowerID,
		BorrowerName:  v.BorrowerName,
		IssueDate:     formatDate(v.IssueDate),
		DueDate:       formatDate(v.DueDate),
		ReturnDate:    formatDatePtr(v.ReturnDate),
		Status:        v.Status,
		RenewalCount:  v.RenewalCount,
		FineAmount:    v.FineAmount,
		ProjectedFine: v.ProjectedFine,
		DaysRemaining: v.DaysRemaining,
		DueLabel:      DueLabel(*v),
		AsOf:          formatDate(v.AsOf),
	}
}

// ToLoanResponses converts a slice of views to LoanResponse DTOs.
func ToLoanResponses(views []domain.LoanView) []LoanResponse {
	res := make([]LoanResponse, len(views))
	for i := range views {
		res[i] = ToLoanResponse(&views[i])
	}
	return res
}

// OverdueSnapshotResponse is the overdue refresh returned to the dashboard.
type OverdueSnapshotResponse struct {
	AsOf           string          `json:"asOf"`
	Loans          []LoanResponse  `json:"loans"`
	ProjectedFines decimal.Decimal `json:"projectedFines"`
}

// ToOverdueSnapshotResponse converts a domain.OverdueSnapshot.
func ToOverdueSnapshotResponse(s *domain.OverdueSnapshot) OverdueSnapshotResponse {
	return OverdueSnapshotResponse{
		AsOf:           formatDate(s.AsOf),
		Loans:          ToLoanResponses(s.Loans),
		ProjectedFines: s.ProjectedFines,
	}
}
