package services

import (
	"context"
	"iter"

	"github.com/SscSPs/library_management_app/internal/core/domain"
	"github.com/SscSPs/library_management_app/internal/dto"
)

// LoanLifecycleSvc defines the mutating loan operations. Each runs as one
// transaction over the loan and the book/borrower counters it touches.
type LoanLifecycleSvc interface {
	IssueLoan(ctx context.Context, req dto.IssueLoanRequest, userID string) (*domain.LoanView, error)
	ReturnLoan(ctx context.Context, loanID string, userID string) (*domain.LoanView, error)
	RenewLoan(ctx context.Context, loanID string, req dto.RenewLoanRequest, userID string) (*domain.LoanView, error)
}

// LoanQuerySvc defines the read side of the loan ledger.
type LoanQuerySvc interface {
	GetLoan(ctx context.Context, loanID string) (*domain.LoanView, error)

	// QueryLoans returns a lazy, restartable sequence of loan views.
	QueryLoans(ctx context.Context, q domain.LoanQuery) (iter.Seq[domain.LoanView], error)

	LoanSummary(ctx context.Context) (*domain.LoanSummary, error)
	OverdueSnapshot(ctx context.Context) (*domain.OverdueSnapshot, error)
}

// LoanSvcFacade combines all loan-related service interfaces
type LoanSvcFacade interface {
	LoanLifecycleSvc
	LoanQuerySvc
}
