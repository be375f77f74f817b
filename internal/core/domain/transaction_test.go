package domain_test

import (
	"testing"

	"github.com/docuflow/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionStatusTransitions(t *testing.T) {
	testCases := []struct {
		name    string
		from    domain.TransactionStatus
		to      domain.TransactionStatus
		allowed bool
	}{
		{"pending to completed", domain.Pending, domain.Completed, true},
		{"pending to failed", domain.Pending, domain.Failed, true},
		{"pending to rolled back", domain.Pending, domain.RolledBack, false},
		{"completed to rolled back", domain.Completed, domain.RolledBack, true},
		{"completed to failed", domain.Completed, domain.Failed, false},
		{"completed to pending", domain.Completed, domain.Pending, false},
		{"rolled back is terminal", domain.RolledBack, domain.Completed, false},
		{"failed is terminal", domain.Failed, domain.Completed, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestPostingLineReversed(t *testing.T) {
	line := domain.PostingLine{
		AccountID: "acc-1",
		Debit:     decimal.RequireFromString("1000.00"),
		Credit:    decimal.Zero,
	}

	rev := line.Reversed()

	assert.True(t, rev.Debit.IsZero())
	assert.True(t, rev.Credit.Equal(decimal.RequireFromString("1000.00")))
	assert.Equal(t, line.AccountID, rev.AccountID)
	// The original line is untouched.
	assert.True(t, line.Debit.Equal(decimal.RequireFromString("1000.00")))
}

func TestJournalEntryDeriveTotals(t *testing.T) {
	entry := domain.JournalEntry{
		Lines: []domain.PostingLine{
			{Debit: decimal.RequireFromString("600.00"), Credit: decimal.Zero},
			{Debit: decimal.RequireFromString("400.00"), Credit: decimal.Zero},
			{Debit: decimal.Zero, Credit: decimal.RequireFromString("1000.00")},
		},
	}

	debit, credit := entry.DeriveTotals()
	assert.True(t, debit.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, credit.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, entry.IsBalanced())

	entry.Lines[2].Credit = decimal.RequireFromString("900.00")
	assert.False(t, entry.IsBalanced())
}
