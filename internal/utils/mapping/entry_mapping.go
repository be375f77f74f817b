package mapping

import (
	"github.com/docuflow/ledgercore/internal/core/domain"
	"github.com/docuflow/ledgercore/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry (header only) to a model row.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		Description:   d.Description,
		CurrencyCode:  d.CurrencyCode,
		TotalDebit:    d.TotalDebit,
		TotalCredit:   d.TotalCredit,
		Sequence:      d.Sequence,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model row to a domain JournalEntry without lines.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		Description:   m.Description,
		CurrencyCode:  m.CurrencyCode,
		TotalDebit:    m.TotalDebit,
		TotalCredit:   m.TotalCredit,
		Sequence:      m.Sequence,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPostingLine converts a domain PostingLine to a model row.
func ToModelPostingLine(d domain.PostingLine) models.PostingLine {
	return models.PostingLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Description: d.Description,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Sequence:    d.Sequence,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPostingLine converts a model row to a domain PostingLine.
func ToDomainPostingLine(m models.PostingLine) domain.PostingLine {
	return domain.PostingLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Description: m.Description,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Sequence:    m.Sequence,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
