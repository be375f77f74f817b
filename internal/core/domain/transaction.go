package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the lifecycle state of an atomic transaction.
//
// Legal transitions: PENDING -> COMPLETED, PENDING -> FAILED,
// COMPLETED -> ROLLED_BACK. ROLLED_BACK and FAILED are terminal.
type TransactionStatus string

const (
	Pending    TransactionStatus = "PENDING"
	Completed  TransactionStatus = "COMPLETED"
	Failed     TransactionStatus = "FAILED"
	RolledBack TransactionStatus = "ROLLED_BACK"
)

// CanTransitionTo reports whether moving from s to next is a legal lifecycle step.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case Pending:
		return next == Completed || next == Failed
	case Completed:
		return next == RolledBack
	default:
		return false
	}
}

// AtomicTransaction is one all-or-nothing unit of work grouping one or more
// journal entries. Either every entry across the unit commits or none do.
type AtomicTransaction struct {
	TransactionID  string            `json:"transactionID"` // Primary Key (e.g., UUID)
	CompanyID      string            `json:"companyID"`     // Tenant scope (Not Null)
	GroupID        *string           `json:"groupID"`       // Nullable FK -> TransactionGroup
	Status         TransactionStatus `json:"status"`
	Metadata       map[string]string `json:"metadata"`       // Free-form caller metadata
	IdempotencyKey *string           `json:"idempotencyKey"` // Nullable caller-supplied replay token
	TotalDebit     decimal.Decimal   `json:"totalDebit"`     // Sum of debits across all entries
	TotalCredit    decimal.Decimal   `json:"totalCredit"`    // Equals TotalDebit for a committed unit
	EntryCount     int               `json:"entryCount"`
	ReversalOf     *string           `json:"reversalOf"`   // Set on a reversal, points at the original
	ReversedBy     *string           `json:"reversedBy"`   // Set on the original once rolled back
	CompletedAt    *time.Time        `json:"completedAt"`  // Timestamp of the atomic commit
	RolledBackAt   *time.Time        `json:"rolledBackAt"` // Timestamp of the rollback commit
	Entries        []JournalEntry    `json:"entries,omitempty"`
	AuditFields
}

// IsReversal reports whether the transaction is a compensating reversal.
func (t *AtomicTransaction) IsReversal() bool {
	return t.ReversalOf != nil
}

// TransactionGroup is an optional reporting label shared by several atomic
// transactions. It carries no invariants of its own.
type TransactionGroup struct {
	GroupID     string `json:"groupID"` // Primary Key (e.g., UUID)
	CompanyID   string `json:"companyID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AuditFields
}

// TransactionGroupSummary is a read model for group listings.
type TransactionGroupSummary struct {
	Group            TransactionGroup `json:"group"`
	TransactionIDs   []string         `json:"transactionIDs"`
	TransactionCount int              `json:"transactionCount"`
}
