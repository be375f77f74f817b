package dto

import (
	"time"

	"github.com/docuflow/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePostingLineRequest is one proposed debit or credit line.
// Amounts travel as exact fixed-point decimal strings, never binary floats.
// Exactly one of DebitAmount/CreditAmount must be a positive decimal; the
// other must be "0" or empty. The posting validator enforces this and reports
// every offending line, so no binding tag attempts the either-or check here.
type CreatePostingLineRequest struct {
	AccountID    string `json:"accountID" binding:"required"`
	Description  string `json:"description"`
	DebitAmount  string `json:"debitAmount"`
	CreditAmount string `json:"creditAmount"`
}

// CreateEntryRequest is one proposed journal entry within an atomic group.
type CreateEntryRequest struct {
	Description string                     `json:"description" binding:"required"`
	Lines       []CreatePostingLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CreateAtomicTransactionRequest is the payload for creating one all-or-nothing
// multi-posting unit.
type CreateAtomicTransactionRequest struct {
	CurrencyCode     string               `json:"currencyCode" binding:"required,len=3"`
	Entries          []CreateEntryRequest `json:"entries" binding:"required,min=1,dive"`
	GroupName        string               `json:"groupName"`
	GroupDescription string               `json:"groupDescription"`
	Metadata         map[string]string    `json:"metadata"`
	// IdempotencyKey lets retries of the same intent return the originally
	// created transaction instead of posting a duplicate. Without it, every
	// call creates a new transaction and retries may double-post.
	IdempotencyKey *string `json:"idempotencyKey"`
}

// PostingLineResponse is the read model for one persisted posting line.
type PostingLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntryResponse is the read model for one persisted journal entry.
type JournalEntryResponse struct {
	EntryID      string                `json:"entryID"`
	Description  string                `json:"description"`
	CurrencyCode string                `json:"currencyCode"`
	TotalDebit   decimal.Decimal       `json:"totalDebit"`
	TotalCredit  decimal.Decimal       `json:"totalCredit"`
	Lines        []PostingLineResponse `json:"lines,omitempty"`
}

// AtomicTransactionResponse summarizes the outcome of a create or rollback commit.
type AtomicTransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	GroupID       *string                  `json:"groupID,omitempty"`
	Status        domain.TransactionStatus `json:"status"`
	TotalDebit    decimal.Decimal          `json:"totalDebit"`
	TotalCredit   decimal.Decimal          `json:"totalCredit"`
	EntryCount    int                      `json:"entryCount"`
	CompletedAt   *time.Time               `json:"completedAt,omitempty"`
}

// RollbackResponse reports a committed compensating reversal.
type RollbackResponse struct {
	ReversalTransactionID string                   `json:"reversalTransactionID"`
	OriginalTransactionID string                   `json:"originalTransactionID"`
	Status                domain.TransactionStatus `json:"status"`
	TotalDebit            decimal.Decimal          `json:"totalDebit"`
	TotalCredit           decimal.Decimal          `json:"totalCredit"`
}

// TransactionStatusResponse is the full read model for one atomic transaction.
type TransactionStatusResponse struct {
	TransactionID string                   `json:"transactionID"`
	CompanyID     string                   `json:"companyID"`
	GroupID       *string                  `json:"groupID,omitempty"`
	Status        domain.TransactionStatus `json:"status"`
	Metadata      map[string]string        `json:"metadata,omitempty"`
	TotalDebit    decimal.Decimal          `json:"totalDebit"`
	TotalCredit   decimal.Decimal          `json:"totalCredit"`
	EntryCount    int                      `json:"entryCount"`
	ReversalOf    *string                  `json:"reversalOf,omitempty"`
	ReversedBy    *string                  `json:"reversedBy,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
	CompletedAt   *time.Time               `json:"completedAt,omitempty"`
	RolledBackAt  *time.Time               `json:"rolledBackAt,omitempty"`
	Entries       []JournalEntryResponse   `json:"entries"`
}

// ListTransactionsParams holds query parameters for transaction listings.
type ListTransactionsParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ListTransactionsResponse wraps a page of transaction summaries.
type ListTransactionsResponse struct {
	Transactions []AtomicTransactionResponse `json:"transactions"`
}

// ToPostingLineResponse converts a domain.PostingLine to its DTO.
func ToPostingLineResponse(l *domain.PostingLine) PostingLineResponse {
	return PostingLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		Description: l.Description,
		Debit:       l.Debit,
		Credit:      l.Credit,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]PostingLineResponse, len(e.Lines))
	for i := range e.Lines {
		lines[i] = ToPostingLineResponse(&e.Lines[i])
	}
	return JournalEntryResponse{
		EntryID:      e.EntryID,
		Description:  e.Description,
		CurrencyCode: e.CurrencyCode,
		TotalDebit:   e.TotalDebit,
		TotalCredit:  e.TotalCredit,
		Lines:        lines,
	}
}

// ToAtomicTransactionResponse converts a domain transaction to its summary DTO.
func ToAtomicTransactionResponse(t *domain.AtomicTransaction) AtomicTransactionResponse {
	return AtomicTransactionResponse{
		TransactionID: t.TransactionID,
		GroupID:       t.GroupID,
		Status:        t.Status,
		TotalDebit:    t.TotalDebit,
		TotalCredit:   t.TotalCredit,
		EntryCount:    t.EntryCount,
		CompletedAt:   t.CompletedAt,
	}
}

// ToTransactionStatusResponse converts a domain transaction with entries to the
// full status DTO.
func ToTransactionStatusResponse(t *domain.AtomicTransaction) TransactionStatusResponse {
	entries := make([]JournalEntryResponse, len(t.Entries))
	for i := range t.Entries {
		entries[i] = ToJournalEntryResponse(&t.Entries[i])
	}
	return TransactionStatusResponse{
		TransactionID: t.TransactionID,
		CompanyID:     t.CompanyID,
		GroupID:       t.GroupID,
		Status:        t.Status,
		Metadata:      t.Metadata,
		TotalDebit:    t.TotalDebit,
		TotalCredit:   t.TotalCredit,
		EntryCount:    t.EntryCount,
		ReversalOf:    t.ReversalOf,
		ReversedBy:    t.ReversedBy,
		CreatedAt:     t.CreatedAt,
		CompletedAt:   t.CompletedAt,
		RolledBackAt:  t.RolledBackAt,
		Entries:       entries,
	}
}
