package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Borrower is a row of the borrowers table.
type Borrower struct {
	BorrowerID     string          `db:"borrower_id"`
	Name           string          `db:"name"`
	Email          string          `db:"email"`
	Phone          string          `db:"phone"`
	MembershipType string          `db:"membership_type"`
	JoinDate       time.Time       `db:"join_date"`
	ActiveLoans    int             `db:"active_loans"`
	TotalBorrowed  int             `db:"total_borrowed"`
	Fines          decimal.Decimal `db:"fines"`
	Status         string          `db:"status"`
	AuditFields
}
