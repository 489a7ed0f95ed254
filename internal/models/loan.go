package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is a row of the loans table. Seq is the insertion order.
type Loan struct {
	Seq          int64           `db:"seq"`
	LoanID       string          `db:"loan_id"`
	BookID       string          `db:"book_id"`
	BorrowerID   string          `db:"borrower_id"`
	IssueDate    time.Time       `db:"issue_date"`
	DueDate      time.Time       `db:"due_date"`
	ReturnDate   *time.Time      `db:"return_date"` // Nullable
	RenewalCount int             `db:"renewal_count"`
	FineAmount   decimal.Decimal `db:"fine_amount"`
	AuditFields
}

// LoanRecord is a loan row joined with book and borrower names.
type LoanRecord struct {
	Loan
	BookTitle    string `db:"book_title"`
	BookAuthor   string `db:"book_author"`
	BorrowerName string `db:"borrower_name"`
}
