package domain

import "github.com/shopspring/decimal"

// PostingLine is a single debit or credit against one account within a
// JournalEntry. Exactly one of Debit/Credit is strictly positive; the other is
// exactly zero.
type PostingLine struct {
	LineID      string          `json:"lineID"`      // Primary Key (e.g., UUID)
	EntryID     string          `json:"entryID"`     // FK -> JournalEntry.entryID (Not Null)
	AccountID   string          `json:"accountID"`   // FK -> Account.accountID (Not Null)
	Description string          `json:"description"` // Nullable
	Debit       decimal.Decimal `json:"debit"`       // Zero or strictly positive
	Credit      decimal.Decimal `json:"credit"`      // Zero or strictly positive
	Sequence    int             `json:"sequence"`    // Preserves caller-supplied line order
	AuditFields
}

// IsDebit reports whether the line moves value on the debit side.
func (l PostingLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Reversed returns a copy of the line with debit and credit swapped, which is
// the accounting negation of the original movement.
func (l PostingLine) Reversed() PostingLine {
	rev := l
	rev.Debit = l.Credit
	rev.Credit = l.Debit
	return rev
}

// JournalEntry is one balanced unit of double-entry postings recorded together.
// Entries are immutable once persisted; corrections happen only via a new
// reversing entry.
type JournalEntry struct {
	EntryID       string          `json:"entryID"`       // Primary Key (e.g., UUID)
	TransactionID string          `json:"transactionID"` // FK -> AtomicTransaction (Not Null)
	Description   string          `json:"description"`
	CurrencyCode  string          `json:"currencyCode"` // Uniform across the entry's lines (Not Null)
	TotalDebit    decimal.Decimal `json:"totalDebit"`   // Sum of line debits
	TotalCredit   decimal.Decimal `json:"totalCredit"`  // Sum of line credits; must equal TotalDebit
	Sequence      int             `json:"sequence"`     // Preserves caller-supplied entry order
	Lines         []PostingLine   `json:"lines,omitempty"`
	AuditFields
}

// DeriveTotals recomputes the entry totals from its lines. Stored totals are
// never trusted for reversal construction; lines are the source of truth.
func (e *JournalEntry) DeriveTotals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, line := range e.Lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	return debit, credit
}

// IsBalanced reports whether the sum of line debits equals the sum of line credits.
func (e *JournalEntry) IsBalanced() bool {
	debit, credit := e.DeriveTotals()
	return debit.Equal(credit)
}
