package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the display state of a loan. It is always derived, never stored.
type LoanStatus string

const (
	LoanActive   LoanStatus = "active"
	LoanRenewed  LoanStatus = "renewed"
	LoanOverdue  LoanStatus = "overdue"
	LoanReturned LoanStatus = "returned"
)

// IsValidLoanStatus reports whether s is a known derived status.
func IsValidLoanStatus(s LoanStatus) bool {
	switch s {
	case LoanActive, LoanRenewed, LoanOverdue, LoanReturned:
		return true
	}
	return false
}

// Loan is an append-only record of one book copy lent to one borrower.
// ReturnDate is set exactly once; after that the loan is terminal.
type Loan struct {
	LoanID       string          `json:"loanID"`
	BookID       string          `json:"bookID"`
	BorrowerID   string          `json:"borrowerID"`
	IssueDate    time.Time       `json:"issueDate"`
	DueDate      time.Time       `json:"dueDate"`
	ReturnDate   *time.Time      `json:"returnDate,omitempty"`
	RenewalCount int             `json:"renewalCount"`
	FineAmount   decimal.Decimal `json:"fineAmount"`
	AuditFields
}

// IsReturned reports whether the loan has reached its terminal state.
func (l Loan) IsReturned() bool {
	return l.ReturnDate != nil
}

// StatusOf derives the status of loan as of today.
func StatusOf(loan Loan, today time.Time) LoanStatus {
	switch {
	case loan.IsReturned():
		return LoanReturned
	case DateOf(today).After(DateOf(loan.DueDate)):
		return LoanOverdue
	case loan.RenewalCount > 0:
		return LoanRenewed
	default:
		return LoanActive
	}
}

// DaysRemaining returns whole days from today until the due date.
// Negative values are days overdue, zero means due today.
func DaysRemaining(loan Loan, today time.Time) int {
	return DaysBetween(today, loan.DueDate)
}

// OverdueDays returns how many days past due the loan is as of asOf, never negative.
func OverdueDays(loan Loan, asOf time.Time) int {
	if d := -DaysRemaining(loan, asOf); d > 0 {
		return d
	}
	return 0
}

// LoanRecord is a loan joined with the book and borrower fields the views search on.
type LoanRecord struct {
	Loan
	BookTitle    string `json:"bookTitle"`
	BookAuthor   string `json:"bookAuthor"`
	BorrowerName string `json:"borrowerName"`
}

// LoanView is a loan record plus everything derived from it for a given day.
type LoanView struct {
	LoanRecord
	Status        LoanStatus      `json:"status"`
	DaysRemaining int             `json:"daysRemaining"`
	OverdueDays   int             `json:"overdueDays"`
	ProjectedFine decimal.Decimal `json:"projectedFine"`
	AsOf          time.Time       `json:"asOf"`
}

// NewLoanView derives the view of rec as of today. For returned loans the
// projected fine is the frozen fine; otherwise it is what a return today would assess.
func NewLoanView(rec LoanRecord, today time.Time, policy LoanPolicy) LoanView {
	v := LoanView{
		LoanRecord:    rec,
		Status:        StatusOf(rec.Loan, today),
		DaysRemaining: DaysRemaining(rec.Loan, today),
		AsOf:          DateOf(today),
	}
	if rec.IsReturned() {
		v.OverdueDays = OverdueDays(rec.Loan, *rec.ReturnDate)
		v.ProjectedFine = rec.FineAmount
		return v
	}
	v.OverdueDays = OverdueDays(rec.Loan, today)
	v.ProjectedFine = policy.FineFor(v.OverdueDays)
	return v
}
