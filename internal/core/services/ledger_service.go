package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/docuflow/ledgercore/internal/apperrors"
	"github.com/docuflow/ledgercore/internal/core/domain"
	portsrepo "github.com/docuflow/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/docuflow/ledgercore/internal/core/ports/services"
	"github.com/docuflow/ledgercore/internal/dto"
	"github.com/docuflow/ledgercore/internal/middleware"
)

const reversalDescriptionPrefix = "Reversal of: "

// ledgerService coordinates validation, grouped persistence and lifecycle
// transitions for atomic multi-posting transactions. It exclusively owns the
// lifecycle of an AtomicTransaction from creation to terminal state.
type ledgerService struct {
	registry     portsrepo.TransactionRegistry
	journalStore portsrepo.JournalStore
	accountSvc   portssvc.AccountSvcFacade
}

// NewLedgerService creates the atomic transaction coordinator / reversal engine.
func NewLedgerService(registry portsrepo.TransactionRegistry, journalStore portsrepo.JournalStore, accountSvc portssvc.AccountSvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		registry:     registry,
		journalStore: journalStore,
		accountSvc:   accountSvc,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateAtomicTransaction implements the all-or-nothing commit contract:
// either every journal entry across every posting group commits, or none do.
// Validation failures are returned before anything durable exists, so a failed
// transaction ID is never observable by any reader.
func (s *ledgerService) CreateAtomicTransaction(ctx context.Context, companyID string, req dto.CreateAtomicTransactionRequest, creatorUserID string) (*dto.AtomicTransactionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// --- Idempotency replay check ---
	if key := idempotencyKey(req.IdempotencyKey); key != "" {
		existing, err := s.registry.FindTransactionByIdempotencyKey(ctx, companyID, key)
		if err == nil {
			logger.Info("Idempotency key replay, returning existing transaction",
				slog.String("transaction_id", existing.TransactionID), slog.String("idempotency_key", key))
			resp := dto.ToAtomicTransactionResponse(existing)
			return &resp, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to check idempotency key", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: idempotency lookup: %v", apperrors.ErrPersistence, err)
		}
	}

	// --- Pure validation, no I/O ---
	entries, violations := ValidatePostingGroups(req.CurrencyCode, req.Entries)
	if len(violations) > 0 {
		logger.Warn("Posting group validation failed", slog.Int("violation_count", len(violations)))
		return nil, apperrors.NewValidationErrors(violations)
	}

	// --- Account existence / currency checks ---
	accountsMap, err := s.fetchReferencedAccounts(ctx, companyID, entries)
	if err != nil {
		return nil, err
	}
	if violations := checkAccounts(entries, accountsMap); len(violations) > 0 {
		logger.Warn("Account checks failed for posting group", slog.Int("violation_count", len(violations)))
		return nil, apperrors.NewValidationErrors(violations)
	}

	// --- Assemble the transaction ---
	now := time.Now().UTC()
	transactionID := uuid.NewString()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: creatorUserID, LastUpdatedAt: now, LastUpdatedBy: creatorUserID}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for i := range entries {
		entries[i].EntryID = uuid.NewString()
		entries[i].TransactionID = transactionID
		entries[i].AuditFields = audit
		for j := range entries[i].Lines {
			entries[i].Lines[j].LineID = uuid.NewString()
			entries[i].Lines[j].EntryID = entries[i].EntryID
			entries[i].Lines[j].AuditFields = audit
		}
		totalDebit = totalDebit.Add(entries[i].TotalDebit)
		totalCredit = totalCredit.Add(entries[i].TotalCredit)
	}

	var group *domain.TransactionGroup
	var groupID *string
	if req.GroupName != "" {
		group = &domain.TransactionGroup{
			GroupID:     uuid.NewString(),
			CompanyID:   companyID,
			Name:        req.GroupName,
			Description: req.GroupDescription,
			AuditFields: audit,
		}
		groupID = &group.GroupID
	}

	completedAt := now
	txn := domain.AtomicTransaction{
		TransactionID:  transactionID,
		CompanyID:      companyID,
		GroupID:        groupID,
		Status:         domain.Completed,
		Metadata:       req.Metadata,
		IdempotencyKey: req.IdempotencyKey,
		TotalDebit:     totalDebit,
		TotalCredit:    totalCredit,
		EntryCount:     len(entries),
		CompletedAt:    &completedAt,
		Entries:        entries,
		AuditFields:    audit,
	}

	// --- Single atomic write ---
	if err := s.registry.SaveCompletedTransaction(ctx, txn, group); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent call with the same idempotency key won the race.
			if key := idempotencyKey(req.IdempotencyKey); key != "" {
				if existing, findErr := s.registry.FindTransactionByIdempotencyKey(ctx, companyID, key); findErr == nil {
					logger.Info("Idempotency race lost, returning winner",
						slog.String("transaction_id", existing.TransactionID))
					resp := dto.ToAtomicTransactionResponse(existing)
					return &resp, nil
				}
			}
		}
		logger.Error("Failed to commit atomic transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	logger.Info("Atomic transaction committed",
		slog.String("transaction_id", transactionID),
		slog.Int("entry_count", len(entries)),
		slog.String("total_debit", totalDebit.String()))
	resp := dto.ToAtomicTransactionResponse(&txn)
	return &resp, nil
}

// Rollback derives a balanced compensating transaction for a COMPLETED
// transaction and commits it through the same atomic-write path as creation.
// The original's status flips to ROLLED_BACK in the same storage transaction,
// guarded by a compare-and-set, so two concurrent rollbacks yield exactly one
// success. Rollback is deliberately not idempotent: a repeat attempt is
// rejected with the existing reversal's ID in the error detail.
func (s *ledgerService) Rollback(ctx context.Context, companyID, transactionID, userID string) (*dto.RollbackResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.registry.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Rollback target not found", slog.String("transaction_id", transactionID))
			return nil, apperrors.ErrNotFound
		}
		logger.Error("Failed to load rollback target", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	if original.Status != domain.Completed {
		if original.Status == domain.RolledBack && original.ReversedBy != nil {
			logger.Warn("Rollback rejected, transaction already rolled back",
				slog.String("transaction_id", transactionID), slog.String("reversal_transaction_id", *original.ReversedBy))
			return nil, fmt.Errorf("%w: transaction %s already rolled back by reversal %s",
				apperrors.ErrInvalidState, transactionID, *original.ReversedBy)
		}
		logger.Warn("Rollback rejected for transaction status",
			slog.String("transaction_id", transactionID), slog.String("status", string(original.Status)))
		return nil, fmt.Errorf("%w: transaction %s has status %s, expected %s",
			apperrors.ErrInvalidState, transactionID, original.Status, domain.Completed)
	}

	originalEntries, err := s.journalStore.GetEntriesByTransaction(ctx, transactionID)
	if err != nil {
		logger.Error("Failed to load entries for reversal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}

	// Swap debit and credit on every line; totals are re-derived from the
	// stored lines rather than trusted from the stored entry totals.
	reversalEntries := make([]domain.JournalEntry, len(originalEntries))
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for i, origEntry := range originalEntries {
		lines := make([]domain.PostingLine, len(origEntry.Lines))
		for j, origLine := range origEntry.Lines {
			line := origLine.Reversed()
			line.LineID = uuid.NewString()
			line.AuditFields = audit
			line.Sequence = j
			lines[j] = line
		}
		entry := domain.JournalEntry{
			EntryID:       uuid.NewString(),
			TransactionID: reversalID,
			Description:   reversalDescriptionPrefix + origEntry.Description,
			CurrencyCode:  origEntry.CurrencyCode,
			Sequence:      i,
			Lines:         lines,
			AuditFields:   audit,
		}
		entry.TotalDebit, entry.TotalCredit = entry.DeriveTotals()
		for j := range lines {
			lines[j].EntryID = entry.EntryID
		}
		totalDebit = totalDebit.Add(entry.TotalDebit)
		totalCredit = totalCredit.Add(entry.TotalCredit)
		reversalEntries[i] = entry
	}

	// A reversal is held to the same invariants as caller input.
	if violations := validateEntrySet(reversalEntries); len(violations) > 0 {
		logger.Error("Derived reversal entries failed validation",
			slog.String("transaction_id", transactionID), slog.Int("violation_count", len(violations)))
		return nil, fmt.Errorf("derived reversal does not balance for transaction %s: %w",
			transactionID, apperrors.NewValidationErrors(violations))
	}

	reversal := domain.AtomicTransaction{
		TransactionID: reversalID,
		CompanyID:     companyID,
		Status:        domain.Completed,
		TotalDebit:    totalDebit,
		TotalCredit:   totalCredit,
		EntryCount:    len(reversalEntries),
		ReversalOf:    &original.TransactionID,
		CompletedAt:   &now,
		Entries:       reversalEntries,
		AuditFields:   audit,
	}

	if err := s.registry.SaveReversal(ctx, reversal, original.TransactionID, now); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			// A concurrent rollback committed first; the original is no
			// longer COMPLETED and nothing from this attempt was written.
			logger.Warn("Rollback lost compare-and-set race", slog.String("transaction_id", transactionID))
			return nil, fmt.Errorf("%w: transaction %s is no longer %s",
				apperrors.ErrInvalidState, transactionID, domain.Completed)
		}
		logger.Error("Failed to commit reversal", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	logger.Info("Transaction rolled back",
		slog.String("transaction_id", transactionID),
		slog.String("reversal_transaction_id", reversalID))
	return &dto.RollbackResponse{
		ReversalTransactionID: reversalID,
		OriginalTransactionID: original.TransactionID,
		Status:                domain.Completed,
		TotalDebit:            totalDebit,
		TotalCredit:           totalCredit,
	}, nil
}

// GetTransactionStatus retrieves a transaction with its entries and lines.
func (s *ledgerService) GetTransactionStatus(ctx context.Context, companyID, transactionID string) (*dto.TransactionStatusResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.registry.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	entries, err := s.journalStore.GetEntriesByTransaction(ctx, transactionID)
	if err != nil {
		logger.Error("Failed to fetch entries for transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	txn.Entries = entries

	resp := dto.ToTransactionStatusResponse(txn)
	return &resp, nil
}

// ListTransactions retrieves transaction summaries for a company, newest first.
func (s *ledgerService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, err := s.registry.ListTransactionsByCompany(ctx, companyID, limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	responses := make([]dto.AtomicTransactionResponse, len(txns))
	for i := range txns {
		responses[i] = dto.ToAtomicTransactionResponse(&txns[i])
	}
	return &dto.ListTransactionsResponse{Transactions: responses}, nil
}

// ListTransactionGroups retrieves group summaries, optionally filtered by the
// status of member transactions.
func (s *ledgerService) ListTransactionGroups(ctx context.Context, companyID string, params dto.ListTransactionGroupsParams) (*dto.ListTransactionGroupsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	summaries, err := s.registry.ListTransactionGroups(ctx, companyID, params.Status, limit)
	if err != nil {
		logger.Error("Failed to list transaction groups", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	responses := make([]dto.TransactionGroupResponse, len(summaries))
	for i := range summaries {
		responses[i] = dto.ToTransactionGroupResponse(&summaries[i])
	}
	return &dto.ListTransactionGroupsResponse{Groups: responses}, nil
}

// fetchReferencedAccounts loads every account referenced by the entry set.
// Unknown accounts surface as ErrNotFound per the failure taxonomy.
func (s *ledgerService) fetchReferencedAccounts(ctx context.Context, companyID string, entries []domain.JournalEntry) (map[string]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountIDs := make([]string, 0)
	seen := make(map[string]struct{})
	for i := range entries {
		for _, line := range entries[i].Lines {
			if _, ok := seen[line.AccountID]; !ok {
				seen[line.AccountID] = struct{}{}
				accountIDs = append(accountIDs, line.AccountID)
			}
		}
	}

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for posting group", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: account lookup: %v", apperrors.ErrPersistence, err)
	}

	var missing []string
	for _, id := range accountIDs {
		if _, found := accountsMap[id]; !found {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		logger.Warn("Posting group references unknown accounts", slog.Any("account_ids", missing))
		return nil, fmt.Errorf("%w: unknown accounts %v", apperrors.ErrNotFound, missing)
	}
	return accountsMap, nil
}

// checkAccounts verifies account state and currency agreement for every line.
func checkAccounts(entries []domain.JournalEntry, accountsMap map[string]domain.Account) []apperrors.Violation {
	var violations []apperrors.Violation
	for i := range entries {
		for j, line := range entries[i].Lines {
			acc := accountsMap[line.AccountID]
			if !acc.IsActive {
				violations = append(violations, apperrors.Violation{
					EntryIndex: i,
					LineIndex:  j,
					Code:       apperrors.CodeInactiveAccount,
					Message:    fmt.Sprintf("account %s is inactive", line.AccountID),
				})
			}
			if acc.CurrencyCode != entries[i].CurrencyCode {
				violations = append(violations, apperrors.Violation{
					EntryIndex: i,
					LineIndex:  j,
					Code:       apperrors.CodeAccountCurrency,
					Message:    fmt.Sprintf("account %s currency %s does not match entry currency %s", line.AccountID, acc.CurrencyCode, entries[i].CurrencyCode),
				})
			}
		}
	}
	return violations
}

func idempotencyKey(key *string) string {
	if key == nil {
		return ""
	}
	return *key
}
