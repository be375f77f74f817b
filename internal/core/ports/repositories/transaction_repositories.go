package repositories

import (
	"context"
	"time"

	"github.com/docuflow/ledgercore/internal/core/domain"
)

// TransactionReader defines read operations on the transaction registry.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction (registry row only, no
	// entries) scoped to a company.
	FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.AtomicTransaction, error)

	// FindTransactionByIdempotencyKey retrieves the transaction previously
	// created under the given caller-supplied key, or apperrors.ErrNotFound.
	FindTransactionByIdempotencyKey(ctx context.Context, companyID, key string) (*domain.AtomicTransaction, error)

	// ListTransactionsByCompany retrieves transactions for a company, newest
	// first, with limit/offset pagination.
	ListTransactionsByCompany(ctx context.Context, companyID string, limit, offset int) ([]domain.AtomicTransaction, error)

	// ListTransactionGroups retrieves group summaries for a company,
	// optionally filtered by the status of the member transactions.
	ListTransactionGroups(ctx context.Context, companyID string, status *domain.TransactionStatus, limit int) ([]domain.TransactionGroupSummary, error)
}

// TransactionWriter defines the two write paths into the registry. Both are
// atomic: the registry row, the journal entries and (for reversals) the
// original's status flip commit in one storage transaction or not at all.
// Only the coordinator and the reversal engine call these.
type TransactionWriter interface {
	// SaveCompletedTransaction persists a validated transaction with all of
	// its entries, plus the optional group row, as a single atomic write.
	// A unique-key collision on the idempotency key is reported as
	// apperrors.ErrDuplicate with nothing written.
	SaveCompletedTransaction(ctx context.Context, txn domain.AtomicTransaction, group *domain.TransactionGroup) error

	// SaveReversal persists the reversal transaction with its entries and, in
	// the same storage transaction, flips the original transaction from
	// COMPLETED to ROLLED_BACK via a compare-and-set on its status. If the
	// original is no longer COMPLETED (e.g. a concurrent rollback won), the
	// whole write is rolled back and apperrors.ErrInvalidState is returned.
	SaveReversal(ctx context.Context, reversal domain.AtomicTransaction, originalTransactionID string, rolledBackAt time.Time) error
}

// TransactionRegistry combines read and write access to the registry.
type TransactionRegistry interface {
	TransactionReader
	TransactionWriter
}
