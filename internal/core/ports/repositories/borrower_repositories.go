package repositories

import (
	"context"

	"github.com/SscSPs/library_management_app/internal/core/domain"
)

// BorrowerListFilter narrows a directory listing. Limit 0 means no limit.
type BorrowerListFilter struct {
	Search         string // name, email or phone
	MembershipType domain.MembershipType
	Status         domain.BorrowerStatus
	Limit          int
	Offset         int
}

// BorrowerReader defines read operations for borrower data
type BorrowerReader interface {
	// FindBorrowerByID retrieves a specific borrower by its unique identifier.
	FindBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error)

	// ListBorrowers retrieves borrowers matching the filter ordered by name.
	ListBorrowers(ctx context.Context, filter BorrowerListFilter) ([]domain.Borrower, error)
}

// BorrowerWriter defines write operations for borrower data
type BorrowerWriter interface {
	// SaveBorrower persists a new borrower. A duplicate email yields apperrors.ErrDuplicate.
	SaveBorrower(ctx context.Context, borrower domain.Borrower) error
}

// BorrowerRepositoryFacade combines all borrower-related repository interfaces
type BorrowerRepositoryFacade interface {
	BorrowerReader
	BorrowerWriter
}
