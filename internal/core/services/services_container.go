package services

import (
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
	"github.com/SscSPs/library_management_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) (*portssvc.ServiceContainer, error) {
	container := &portssvc.ServiceContainer{}

	container.Book = NewBookService(repos.BookRepo, repos.TxManager)
	container.Borrower = NewBorrowerService(repos.BorrowerRepo, repos.TxManager)
	container.Loan = NewLoanService(repos.LoanRepo, repos.TxManager, WithLoanPolicy(cfg.LoanPolicy))

	// Reporting reads loan tiles through the ledger so statuses are derived in one place
	container.Reporting = NewReportingService(repos.BookRepo, repos.BorrowerRepo, container.Loan)

	auth, err := NewAuthService(cfg)
	if err != nil {
		return nil, err
	}
	container.Auth = auth

	return container, nil
}
