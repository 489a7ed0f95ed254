package dto

import (
	"github.com/SscSPs/library_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBorrowerRequest defines the data needed to register a borrower.
type CreateBorrowerRequest struct {
	Name           string                `json:"name" binding:"required,max=255"`
	Email          string                `json:"email" binding:"required,email"`
	Phone          string                `json:"phone" binding:"max=32"`
	MembershipType domain.MembershipType `json:"membershipType" binding:"required,membership"`
	JoinDate       string                `json:"joinDate" binding:"omitempty,datetime=2006-01-02"` // defaults to today
}

// UpdateBorrowerRequest defines the data allowed for updating a borrower.
type UpdateBorrowerRequest struct {
	Name           *string                `json:"name" binding:"omitempty,min=1,max=255"`
	Email          *string                `json:"email" binding:"omitempty,email"`
	Phone          *string                `json:"phone" binding:"omitempty,max=32"`
	MembershipType *domain.MembershipType `json:"membershipType" binding:"omitempty,membership"`
	Status         *domain.BorrowerStatus `json:"status" binding:"omitempty,borrowerstatus"`
}

// PayFineRequest settles part or all of a borrower's outstanding fines.
type PayFineRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ListBorrowersParams defines query parameters for listing borrowers.
type ListBorrowersParams struct {
	Search         string                `form:"search"`
	MembershipType domain.MembershipType `form:"membershipType" binding:"omitempty,membership"`
	Status         domain.BorrowerStatus `form:"status" binding:"omitempty,borrowerstatus"`
	Limit          int                   `form:"limit,default=50" binding:"min=0,max=500"`
	Offset         int                   `form:"offset,default=0" binding:"min=0"`
}

// BorrowerResponse defines the data returned for a borrower.
type BorrowerResponse struct {
	BorrowerID     string                `json:"borrowerID"`
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	Phone          string                `json:"phone"`
	MembershipType domain.MembershipType `json:"membershipType"`
	JoinDate       string                `json:"joinDate"`
	ActiveLoans    int                   `json:"activeLoans"`
	TotalBorrowed  int                   `json:"totalBorrowed"`
	Fines          decimal.Decimal       `json:"fines"`
	Status         domain.BorrowerStatus `json:"status"`
}

// ListBorrowersResponse wraps the list of borrowers.
type ListBorrowersResponse struct {
	Borrowers []BorrowerResponse `json:"borrowers"`
}

// ToBorrowerResponse converts a domain.Borrower to BorrowerResponse DTO
func ToBorrowerResponse(b *domain.Borrower) BorrowerResponse {
	return BorrowerResponse{
		BorrowerID:     b.BorrowerID,
		Name:           b.Name,
		Email:          b.Email,
		Phone:          b.Phone,
		MembershipType: b.MembershipType,
		JoinDate:       formatDate(b.JoinDate),
		ActiveLoans:    b.ActiveLoans,
		TotalBorrowed:  b.TotalBorrowed,
		Fines:          b.Fines,
		Status:         b.Status,
	}
}

// ToListBorrowersResponse converts a slice of domain.Borrower to ListBorrowersResponse DTO
func ToListBorrowersResponse(borrowers []domain.Borrower) ListBorrowersResponse {
	res := make([]BorrowerResponse, len(borrowers))
	for i := range borrowers {
		res[i] = ToBorrowerResponse(&borrowers[i])
	}
	return ListBorrowersResponse{Borrowers: res}
}
