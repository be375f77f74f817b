package pgsql

import (
	"context"
	"fmt"
	"sort"

	"github.com/docuflow/ledgercore/internal/core/domain"
	portsrepo "github.com/docuflow/ledgercore/internal/core/ports/repositories"
	"github.com/docuflow/ledgercore/internal/models"
	"github.com/docuflow/ledgercore/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxJournalRepository is the append-only journal store. It is the only type
// in the codebase that writes journal_entries and posting_lines rows; there is
// no update or delete path for them.
type PgxJournalRepository struct {
	pool *pgxpool.Pool
}

// NewPgxJournalRepository creates a repository for journal entry and posting line data.
func NewPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{pool: pool}
}

var _ portsrepo.JournalStore = (*PgxJournalRepository)(nil)

// AppendEntries persists all entries and lines for one transaction within a
// single database transaction.
func (r *PgxJournalRepository) AppendEntries(ctx context.Context, transactionID string, entries []domain.JournalEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	if err := r.appendEntriesTx(ctx, tx, transactionID, entries); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit entries for transaction %s: %w", transactionID, err)
	}
	return nil
}

// appendEntriesTx queues the inserts for every entry and line on an existing
// database transaction. The transaction registry composes this into its own
// atomic writes so the registry row and the journal rows share one commit.
func (r *PgxJournalRepository) appendEntriesTx(ctx context.Context, tx pgx.Tx, transactionID string, entries []domain.JournalEntry) error {
	batch := &pgx.Batch{}

	entryQuery := `
		INSERT INTO journal_entries (entry_id, transaction_id, description, currency_code, total_debit, total_credit, sequence, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	lineQuery := `
		INSERT INTO posting_lines (line_id, entry_id, account_id, description, debit, credit, sequence, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	for i := range entries {
		entry := mapping.ToModelJournalEntry(entries[i])
		batch.Queue(entryQuery,
			entry.EntryID,
			transactionID,
			entry.Description,
			entry.CurrencyCode,
			entry.TotalDebit,
			entry.TotalCredit,
			entry.Sequence,
			entry.CreatedAt,
			entry.CreatedBy,
			entry.LastUpdatedAt,
			entry.LastUpdatedBy,
		)
		for j := range entries[i].Lines {
			line := mapping.ToModelPostingLine(entries[i].Lines[j])
			batch.Queue(lineQuery,
				line.LineID,
				entry.EntryID,
				line.AccountID,
				line.Description,
				line.Debit,
				line.Credit,
				line.Sequence,
				line.CreatedAt,
				line.CreatedBy,
				line.LastUpdatedAt,
				line.LastUpdatedBy,
			)
		}
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute entry batch for transaction %s: %w", transactionID, err)
	}
	return nil
}

// GetEntriesByTransaction retrieves all entries for a transaction in their
// original sequence, with lines populated in their original line order.
func (r *PgxJournalRepository) GetEntriesByTransaction(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	entryQuery := `
		SELECT entry_id, transaction_id, description, currency_code, total_debit, total_credit, sequence, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entries
		WHERE transaction_id = $1
		ORDER BY sequence;
	`
	rows, err := r.pool.Query(ctx, entryQuery, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	entryIDs := []string{}
	for rows.Next() {
		var m models.JournalEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.TransactionID,
			&m.Description,
			&m.CurrencyCode,
			&m.TotalDebit,
			&m.TotalCredit,
			&m.Sequence,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry row for transaction %s: %w", transactionID, err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
		entryIDs = append(entryIDs, m.EntryID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows for transaction %s: %w", transactionID, err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	linesByEntry, err := r.findLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = linesByEntry[entries[i].EntryID]
	}
	return entries, nil
}

func (r *PgxJournalRepository) findLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.PostingLine, error) {
	lineQuery := `
		SELECT line_id, entry_id, account_id, description, debit, credit, sequence, created_at, created_by, last_updated_at, last_updated_by
		FROM posting_lines
		WHERE entry_id = ANY($1);
	`
	rows, err := r.pool.Query(ctx, lineQuery, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query posting lines: %w", err)
	}
	defer rows.Close()

	linesByEntry := make(map[string][]domain.PostingLine, len(entryIDs))
	for rows.Next() {
		var m models.PostingLine
		if err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.Description,
			&m.Debit,
			&m.Credit,
			&m.Sequence,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan posting line row: %w", err)
		}
		linesByEntry[m.EntryID] = append(linesByEntry[m.EntryID], mapping.ToDomainPostingLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posting line rows: %w", err)
	}

	for entryID := range linesByEntry {
		lines := linesByEntry[entryID]
		sort.Slice(lines, func(i, j int) bool { return lines[i].Sequence < lines[j].Sequence })
	}
	return linesByEntry, nil
}
