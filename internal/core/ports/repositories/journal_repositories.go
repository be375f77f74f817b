package repositories

import (
	"context"

	"github.com/docuflow/ledgercore/internal/core/domain"
)

// JournalStore is the narrow persistence interface for journal entries and
// their posting lines. Entries are append-only: once written they are never
// updated or deleted through this interface. Callers must materialize the full
// entry set before calling AppendEntries; there is no partial or streaming
// write.
//
// The JournalStore is the only component allowed to write journal rows.
type JournalStore interface {
	// AppendEntries persists all entries (and their lines) for one atomic
	// transaction as a single all-or-nothing write. Either every entry
	// commits or none do.
	AppendEntries(ctx context.Context, transactionID string, entries []domain.JournalEntry) error

	// GetEntriesByTransaction retrieves all entries for a transaction in
	// their original sequence, lines populated.
	GetEntriesByTransaction(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)
}
