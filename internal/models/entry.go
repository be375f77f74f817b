package models

import "github.com/shopspring/decimal"

// JournalEntry mirrors one row of the journal_entries table. Rows are
// append-only: there is no update or delete path for posted entries.
type JournalEntry struct {
	EntryID       string          `json:"entryID"`
	TransactionID string          `json:"transactionID"`
	Description   string          `json:"description"`
	CurrencyCode  string          `json:"currencyCode"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	Sequence      int             `json:"sequence"`
	AuditFields
}

// PostingLine mirrors one row of the posting_lines table.
type PostingLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Sequence    int             `json:"sequence"`
	AuditFields
}
