package services

import (
	"context"

	"github.com/docuflow/ledgercore/internal/core/domain"
	"github.com/docuflow/ledgercore/internal/dto"
)

// LedgerSvcFacade is the public surface of the atomic transaction engine,
// consumed by the HTTP handlers. All operations are synchronous: they block on
// the underlying storage commit and return commit-or-fail. Callers needing
// non-blocking behavior should run them on a worker of their own.
type LedgerSvcFacade interface {
	// CreateAtomicTransaction validates the posting groups and commits every
	// resulting journal entry as one all-or-nothing unit. On validation
	// failure it returns *apperrors.ValidationErrors and nothing is written.
	CreateAtomicTransaction(ctx context.Context, companyID string, req dto.CreateAtomicTransactionRequest, creatorUserID string) (*dto.AtomicTransactionResponse, error)

	// Rollback commits a balanced compensating transaction for a COMPLETED
	// transaction and flips the original to ROLLED_BACK. The original is
	// never mutated beyond that status transition.
	Rollback(ctx context.Context, companyID, transactionID, userID string) (*dto.RollbackResponse, error)

	// GetTransactionStatus retrieves a transaction with its journal entries.
	GetTransactionStatus(ctx context.Context, companyID, transactionID string) (*dto.TransactionStatusResponse, error)

	// ListTransactions retrieves transaction summaries for a company.
	ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// ListTransactionGroups retrieves group summaries for a company.
	ListTransactionGroups(ctx context.Context, companyID string, params dto.ListTransactionGroupsParams) (*dto.ListTransactionGroupsResponse, error)
}

// AccountSvcFacade exposes the read-only account checks the ledger core needs.
type AccountSvcFacade interface {
	// GetAccountByID retrieves a single account scoped to a company.
	GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves several accounts at once, keyed by ID.
	GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)
}
