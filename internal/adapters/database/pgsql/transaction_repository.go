package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docuflow/ledgercore/internal/apperrors"
	"github.com/docuflow/ledgercore/internal/core/domain"
	portsrepo "github.com/docuflow/ledgercore/internal/core/ports/repositories"
	"github.com/docuflow/ledgercore/internal/models"
	"github.com/docuflow/ledgercore/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PgxTransactionRepository is the transaction registry. Its two write paths
// compose the journal store's batch insert into the same database transaction
// as the registry row, which is what makes a multi-entry commit all-or-nothing.
type PgxTransactionRepository struct {
	pool        *pgxpool.Pool
	journalRepo *PgxJournalRepository
}

// NewPgxTransactionRepository creates the registry over atomic_transactions
// and transaction_groups. The journal repository is injected so entry writes
// stay owned by the journal store even inside composed transactions.
func NewPgxTransactionRepository(pool *pgxpool.Pool, journalRepo *PgxJournalRepository) portsrepo.TransactionRegistry {
	return &PgxTransactionRepository{pool: pool, journalRepo: journalRepo}
}

var _ portsrepo.TransactionRegistry = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, company_id, group_id, status, metadata, idempotency_key, total_debit, total_credit, entry_count, reversal_of, reversed_by, completed_at, rolled_back_at, created_at, created_by, last_updated_at, last_updated_by`

// SaveCompletedTransaction persists the registry row, the optional group row
// and every journal entry as one database transaction.
func (r *PgxTransactionRepository) SaveCompletedTransaction(ctx context.Context, txn domain.AtomicTransaction, group *domain.TransactionGroup) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if group != nil {
		g := mapping.ToModelTransactionGroup(*group)
		groupQuery := `
			INSERT INTO transaction_groups (group_id, company_id, name, description, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`
		if _, err := tx.Exec(ctx, groupQuery,
			g.GroupID, g.CompanyID, g.Name, g.Description,
			g.CreatedAt, g.CreatedBy, g.LastUpdatedAt, g.LastUpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to insert transaction group %s: %w", g.GroupID, err)
		}
	}

	if err := r.insertTransactionTx(ctx, tx, txn); err != nil {
		return err
	}

	if err := r.journalRepo.appendEntriesTx(ctx, tx, txn.TransactionID, txn.Entries); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit atomic transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// SaveReversal persists the reversal with its entries and flips the original
// to ROLLED_BACK via a compare-and-set, all in one database transaction. If
// the original is no longer COMPLETED, nothing is written and
// apperrors.ErrInvalidState is returned.
func (r *PgxTransactionRepository) SaveReversal(ctx context.Context, reversal domain.AtomicTransaction, originalTransactionID string, rolledBackAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := r.insertTransactionTx(ctx, tx, reversal); err != nil {
		return err
	}

	if err := r.journalRepo.appendEntriesTx(ctx, tx, reversal.TransactionID, reversal.Entries); err != nil {
		return err
	}

	// Compare-and-set on status guarantees at most one reversal ever commits
	// for a given original, even under concurrent rollback attempts.
	casQuery := `
		UPDATE atomic_transactions
		SET status = $1, reversed_by = $2, rolled_back_at = $3, last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $6 AND status = $7;
	`
	tag, err := tx.Exec(ctx, casQuery,
		models.RolledBack,
		reversal.TransactionID,
		rolledBackAt,
		reversal.LastUpdatedAt,
		reversal.LastUpdatedBy,
		originalTransactionID,
		models.Completed,
	)
	if err != nil {
		return fmt.Errorf("failed to flip transaction %s to rolled back: %w", originalTransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is not %s", apperrors.ErrInvalidState, originalTransactionID, models.Completed)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reversal %s: %w", reversal.TransactionID, err)
	}
	return nil
}

func (r *PgxTransactionRepository) insertTransactionTx(ctx context.Context, tx pgx.Tx, txn domain.AtomicTransaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO atomic_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.CompanyID,
		m.GroupID,
		m.Status,
		m.Metadata,
		m.IdempotencyKey,
		m.TotalDebit,
		m.TotalCredit,
		m.EntryCount,
		m.ReversalOf,
		m.ReversedBy,
		m.CompletedAt,
		m.RolledBackAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: transaction insert: %v", apperrors.ErrDuplicate, err)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

func scanTransaction(row pgx.Row) (models.AtomicTransaction, error) {
	var m models.AtomicTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.CompanyID,
		&m.GroupID,
		&m.Status,
		&m.Metadata,
		&m.IdempotencyKey,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.EntryCount,
		&m.ReversalOf,
		&m.ReversedBy,
		&m.CompletedAt,
		&m.RolledBackAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindTransactionByID retrieves a registry row scoped to a company.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.AtomicTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM atomic_transactions WHERE company_id = $1 AND transaction_id = $2;`

	m, err := scanTransaction(r.pool.QueryRow(ctx, query, companyID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// FindTransactionByIdempotencyKey retrieves the transaction previously created
// under a caller-supplied key.
func (r *PgxTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, companyID, key string) (*domain.AtomicTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM atomic_transactions WHERE company_id = $1 AND idempotency_key = $2;`

	m, err := scanTransaction(r.pool.QueryRow(ctx, query, companyID, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by idempotency key: %w", err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactionsByCompany retrieves registry rows for a company, newest first.
func (r *PgxTransactionRepository) ListTransactionsByCompany(ctx context.Context, companyID string, limit, offset int) ([]domain.AtomicTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM atomic_transactions
		WHERE company_id = $1
		ORDER BY created_at DESC, transaction_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for company %s: %w", companyID, err)
	}
	defer rows.Close()

	txns := []domain.AtomicTransaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

// ListTransactionGroups retrieves group summaries with their member
// transaction IDs, optionally filtered by member status.
func (r *PgxTransactionRepository) ListTransactionGroups(ctx context.Context, companyID string, status *domain.TransactionStatus, limit int) ([]domain.TransactionGroupSummary, error) {
	query := `
		SELECT g.group_id, g.company_id, g.name, g.description, g.created_at, g.created_by, g.last_updated_at, g.last_updated_by,
		       array_agg(t.transaction_id ORDER BY t.created_at, t.transaction_id)
		FROM transaction_groups g
		JOIN atomic_transactions t ON t.group_id = g.group_id
		WHERE g.company_id = $1
		  AND ($2::text IS NULL OR t.status = $2)
		GROUP BY g.group_id, g.company_id, g.name, g.description, g.created_at, g.created_by, g.last_updated_at, g.last_updated_by
		ORDER BY g.created_at DESC
		LIMIT $3;
	`
	var statusFilter *string
	if status != nil {
		s := string(*status)
		statusFilter = &s
	}

	rows, err := r.pool.Query(ctx, query, companyID, statusFilter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction groups for company %s: %w", companyID, err)
	}
	defer rows.Close()

	summaries := []domain.TransactionGroupSummary{}
	for rows.Next() {
		var g models.TransactionGroup
		var txnIDs []string
		if err := rows.Scan(
			&g.GroupID,
			&g.CompanyID,
			&g.Name,
			&g.Description,
			&g.CreatedAt,
			&g.CreatedBy,
			&g.LastUpdatedAt,
			&g.LastUpdatedBy,
			&txnIDs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction group row: %w", err)
		}
		summaries = append(summaries, domain.TransactionGroupSummary{
			Group:            mapping.ToDomainTransactionGroup(g),
			TransactionIDs:   txnIDs,
			TransactionCount: len(txnIDs),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction group rows: %w", err)
	}
	return summaries, nil
}
