package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MembershipType classifies a borrower.
type MembershipType string

const (
	MembershipStudent MembershipType = "student"
	MembershipFaculty MembershipType = "faculty"
	MembershipPublic  MembershipType = "public"
)

// BorrowerStatus is the account status of a borrower.
type BorrowerStatus string

const (
	BorrowerActive    BorrowerStatus = "active"
	BorrowerSuspended BorrowerStatus = "suspended"
	BorrowerExpired   BorrowerStatus = "expired"
)

// Borrower represents a library member.
// ActiveLoans, TotalBorrowed and Fines are owned by the loan ledger.
type Borrower struct {
	BorrowerID     string          `json:"borrowerID"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	MembershipType MembershipType  `json:"membershipType"`
	JoinDate       time.Time       `json:"joinDate"`
	ActiveLoans    int             `json:"activeLoans"`
	TotalBorrowed  int             `json:"totalBorrowed"`
	Fines          decimal.Decimal `json:"fines"`
	Status         BorrowerStatus  `json:"status"`
	AuditFields
}

// CanBorrow reports whether the borrower is eligible for a new loan.
func (b Borrower) CanBorrow() bool {
	return b.Status == BorrowerActive
}

// IsValidMembershipType reports whether m is a known membership class.
func IsValidMembershipType(m MembershipType) bool {
	switch m {
	case MembershipStudent, MembershipFaculty, MembershipPublic:
		return true
	}
	return false
}

// IsValidBorrowerStatus reports whether s is a known account status.
func IsValidBorrowerStatus(s BorrowerStatus) bool {
	switch s {
	case BorrowerActive, BorrowerSuspended, BorrowerExpired:
		return true
	}
	return false
}
