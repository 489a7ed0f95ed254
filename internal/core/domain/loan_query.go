package domain

import (
	"cmp"
	"strings"
)

// LoanSortKey selects the primary ordering of a loan query.
type LoanSortKey string

const (
	SortNone          LoanSortKey = ""
	SortDueDate       LoanSortKey = "dueDate"
	SortIssueDate     LoanSortKey = "issueDate"
	SortDaysRemaining LoanSortKey = "daysRemaining"
	SortFineAmount    LoanSortKey = "fineAmount"
	SortBorrowerName  LoanSortKey = "borrowerName"
	SortBookTitle     LoanSortKey = "bookTitle"
)

// IsValidLoanSortKey reports whether k is a supported sort key.
func IsValidLoanSortKey(k LoanSortKey) bool {
	switch k {
	case SortNone, SortDueDate, SortIssueDate, SortDaysRemaining, SortFineAmount, SortBorrowerName, SortBookTitle:
		return true
	}
	return false
}

// LoanQuery filters and orders derived loan views. Zero values mean "any".
type LoanQuery struct {
	Status     LoanStatus
	Search     string
	BorrowerID string
	BookID     string
	SortBy     LoanSortKey
	Descending bool
}

// Matches reports whether v passes every filter in q.
func (q LoanQuery) Matches(v LoanView) bool {
	if q.Status != "" && v.Status != q.Status {
		return false
	}
	if q.BorrowerID != "" && v.BorrowerID != q.BorrowerID {
		return false
	}
	if q.BookID != "" && v.BookID != q.BookID {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		return strings.Contains(strings.ToLower(v.BookTitle), term) ||
			strings.Contains(strings.ToLower(v.BookAuthor), term) ||
			strings.Contains(strings.ToLower(v.BorrowerName), term)
	}
	return true
}

// Compare orders a before b by the query's sort key. Ties return 0 so a
// stable sort keeps insertion order.
func (q LoanQuery) Compare(a, b LoanView) int {
	var c int
	switch q.SortBy {
	case SortDueDate:
		c = a.DueDate.Compare(b.DueDate)
	case SortIssueDate:
		c = a.IssueDate.Compare(b.IssueDate)
	case SortDaysRemaining:
		c = cmp.Compare(a.DaysRemaining, b.DaysRemaining)
	case SortFineAmount:
		c = a.ProjectedFine.Cmp(b.ProjectedFine)
	case SortBorrowerName:
		c = strings.Compare(strings.ToLower(a.BorrowerName), strings.ToLower(b.BorrowerName))
	case SortBookTitle:
		c = strings.Compare(strings.ToLower(a.BookTitle), strings.ToLower(b.BookTitle))
	}
	if q.Descending {
		return -c
	}
	return c
}
