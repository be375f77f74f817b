package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the lifecycle state of an atomic transaction row.
type TransactionStatus string

const (
	Pending    TransactionStatus = "PENDING"
	Completed  TransactionStatus = "COMPLETED"
	Failed     TransactionStatus = "FAILED"
	RolledBack TransactionStatus = "ROLLED_BACK"
)

// AtomicTransaction mirrors one row of the atomic_transactions table.
type AtomicTransaction struct {
	TransactionID  string            `json:"transactionID"`
	CompanyID      string            `json:"companyID"`
	GroupID        *string           `json:"groupID"`
	Status         TransactionStatus `json:"status"`
	Metadata       map[string]string `json:"metadata"`
	IdempotencyKey *string           `json:"idempotencyKey"`
	TotalDebit     decimal.Decimal   `json:"totalDebit"`
	TotalCredit    decimal.Decimal   `json:"totalCredit"`
	EntryCount     int               `json:"entryCount"`
	ReversalOf     *string           `json:"reversalOf"`
	ReversedBy     *string           `json:"reversedBy"`
	CompletedAt    *time.Time        `json:"completedAt"`
	RolledBackAt   *time.Time        `json:"rolledBackAt"`
	AuditFields
}

// TransactionGroup mirrors one row of the transaction_groups table.
type TransactionGroup struct {
	GroupID     string `json:"groupID"`
	CompanyID   string `json:"companyID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AuditFields
}
