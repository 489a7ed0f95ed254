package services

import (
	"context"

	"github.com/SscSPs/library_management_app/internal/core/domain"
	"github.com/SscSPs/library_management_app/internal/dto"
	"github.com/shopspring/decimal"
)

// BorrowerReaderSvc defines read operations of the borrower directory.
type BorrowerReaderSvc interface {
	GetBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error)
	ListBorrowers(ctx context.Context, params dto.ListBorrowersParams) ([]domain.Borrower, error)
}

// BorrowerWriterSvc defines write operations of the borrower directory.
type BorrowerWriterSvc interface {
	CreateBorrower(ctx context.Context, req dto.CreateBorrowerRequest, userID string) (*domain.Borrower, error)
	UpdateBorrower(ctx context.Context, borrowerID string, req dto.UpdateBorrowerRequest, userID string) (*domain.Borrower, error)

	// PayFine reduces the borrower's outstanding fines by amount.
	PayFine(ctx context.Context, borrowerID string, amount decimal.Decimal, userID string) (*domain.Borrower, error)
}

// BorrowerSvcFacade combines all borrower-related service interfaces
type BorrowerSvcFacade interface {
	BorrowerReaderSvc
	BorrowerWriterSvc
}
