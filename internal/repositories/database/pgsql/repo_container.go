package pgsql

import (
	portsrepo "github.com/SscSPs/library_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BookRepo:     newPgxBookRepository(dbPool),
		BorrowerRepo: newPgxBorrowerRepository(dbPool),
		LoanRepo:     newPgxLoanRepository(dbPool),
		TxManager:    newPgxTransactionManager(dbPool),
	}
}
