package mapping

import (
	"github.com/docuflow/ledgercore/internal/core/domain"
	"github.com/docuflow/ledgercore/internal/models"
)

// ToModelTransaction converts a domain AtomicTransaction to a model row.
// Entries travel through the journal store, not through this mapping.
func ToModelTransaction(d domain.AtomicTransaction) models.AtomicTransaction {
	return models.AtomicTransaction{
		TransactionID:  d.TransactionID,
		CompanyID:      d.CompanyID,
		GroupID:        d.GroupID,
		Status:         models.TransactionStatus(d.Status),
		Metadata:       d.Metadata,
		IdempotencyKey: d.IdempotencyKey,
		TotalDebit:     d.TotalDebit,
		TotalCredit:    d.TotalCredit,
		EntryCount:     d.EntryCount,
		ReversalOf:     d.ReversalOf,
		ReversedBy:     d.ReversedBy,
		CompletedAt:    d.CompletedAt,
		RolledBackAt:   d.RolledBackAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model row to a domain AtomicTransaction.
func ToDomainTransaction(m models.AtomicTransaction) domain.AtomicTransaction {
	return domain.AtomicTransaction{
		TransactionID:  m.TransactionID,
		CompanyID:      m.CompanyID,
		GroupID:        m.GroupID,
		Status:         domain.TransactionStatus(m.Status),
		Metadata:       m.Metadata,
		IdempotencyKey: m.IdempotencyKey,
		TotalDebit:     m.TotalDebit,
		TotalCredit:    m.TotalCredit,
		EntryCount:     m.EntryCount,
		ReversalOf:     m.ReversalOf,
		ReversedBy:     m.ReversedBy,
		CompletedAt:    m.CompletedAt,
		RolledBackAt:   m.RolledBackAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransactionGroup converts a domain TransactionGroup to a model row.
func ToModelTransactionGroup(d domain.TransactionGroup) models.TransactionGroup {
	return models.TransactionGroup{
		GroupID:     d.GroupID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransactionGroup converts a model row to a domain TransactionGroup.
func ToDomainTransactionGroup(m models.TransactionGroup) domain.TransactionGroup {
	return domain.TransactionGroup{
		GroupID:     m.GroupID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
