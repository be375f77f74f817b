package services

import (
	"fmt"
	"strings"

	"github.com/docuflow/ledgercore/internal/apperrors"
	"github.com/docuflow/ledgercore/internal/core/domain"
	"github.com/docuflow/ledgercore/internal/dto"
	"github.com/shopspring/decimal"
)

// ValidatePostingGroups checks the structural and balance correctness of a
// proposed set of journal entries and normalizes them into domain entries
// (identifiers and audit fields are assigned later by the coordinator).
//
// The function performs no I/O and has no side effects. It does not stop at
// the first problem: every offending line and entry is reported so a caller
// gets a complete diagnostic in one round trip. The returned entries are only
// meaningful when the violation slice is empty.
func ValidatePostingGroups(currencyCode string, entries []dto.CreateEntryRequest) ([]domain.JournalEntry, []apperrors.Violation) {
	var violations []apperrors.Violation

	currencyCode = strings.ToUpper(strings.TrimSpace(currencyCode))
	if currencyCode == "" {
		violations = append(violations, apperrors.Violation{
			EntryIndex: -1,
			LineIndex:  -1,
			Code:       apperrors.CodeMissingCurrency,
			Message:    "a currency code is required for the posting group",
		})
	}

	if len(entries) == 0 {
		violations = append(violations, apperrors.Violation{
			EntryIndex: -1,
			LineIndex:  -1,
			Code:       apperrors.CodeEmptyEntry,
			Message:    "at least one journal entry is required",
		})
		return nil, violations
	}

	normalized := make([]domain.JournalEntry, 0, len(entries))
	for i, entryReq := range entries {
		entry, entryViolations := validateEntry(i, currencyCode, entryReq)
		violations = append(violations, entryViolations...)
		normalized = append(normalized, entry)
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return normalized, nil
}

func validateEntry(entryIndex int, currencyCode string, req dto.CreateEntryRequest) (domain.JournalEntry, []apperrors.Violation) {
	var violations []apperrors.Violation

	if len(req.Lines) == 0 {
		violations = append(violations, apperrors.Violation{
			EntryIndex: entryIndex,
			LineIndex:  -1,
			Code:       apperrors.CodeEmptyEntry,
			Message:    "entry must contain at least one posting line",
		})
		return domain.JournalEntry{}, violations
	}

	lines := make([]domain.PostingLine, 0, len(req.Lines))
	for j, lineReq := range req.Lines {
		line, lineViolations := validateLine(entryIndex, j, lineReq)
		violations = append(violations, lineViolations...)
		lines = append(lines, line)
	}

	entry := domain.JournalEntry{
		Description:  req.Description,
		CurrencyCode: currencyCode,
		Sequence:     entryIndex,
		Lines:        lines,
	}

	// The balance check only makes sense once every line parsed cleanly.
	if len(violations) == 0 {
		debit, credit := entry.DeriveTotals()
		entry.TotalDebit = debit
		entry.TotalCredit = credit
		if !debit.Equal(credit) {
			violations = append(violations, apperrors.Violation{
				EntryIndex: entryIndex,
				LineIndex:  -1,
				Code:       apperrors.CodeUnbalancedEntry,
				Message:    fmt.Sprintf("entry does not balance: debits sum to %s, credits sum to %s", debit.String(), credit.String()),
			})
		}
	}

	return entry, violations
}

func validateLine(entryIndex, lineIndex int, req dto.CreatePostingLineRequest) (domain.PostingLine, []apperrors.Violation) {
	var violations []apperrors.Violation

	if strings.TrimSpace(req.AccountID) == "" {
		violations = append(violations, apperrors.Violation{
			EntryIndex: entryIndex,
			LineIndex:  lineIndex,
			Code:       apperrors.CodeMissingAccount,
			Message:    "an account reference is required",
		})
	}

	debit, err := parseAmount(req.DebitAmount)
	if err != nil {
		violations = append(violations, apperrors.Violation{
			EntryIndex: entryIndex,
			LineIndex:  lineIndex,
			Code:       apperrors.CodeInvalidAmount,
			Message:    fmt.Sprintf("debit amount %q is not a valid non-negative decimal", req.DebitAmount),
		})
	}
	credit, err := parseAmount(req.CreditAmount)
	if err != nil {
		violations = append(violations, apperrors.Violation{
			EntryIndex: entryIndex,
			LineIndex:  lineIndex,
			Code:       apperrors.CodeInvalidAmount,
			Message:    fmt.Sprintf("credit amount %q is not a valid non-negative decimal", req.CreditAmount),
		})
	}

	if len(violations) == 0 {
		switch {
		case debit.IsPositive() && credit.IsPositive():
			violations = append(violations, apperrors.Violation{
				EntryIndex: entryIndex,
				LineIndex:  lineIndex,
				Code:       apperrors.CodeAmbiguousLine,
				Message:    "a line cannot carry both a debit and a credit amount",
			})
		case debit.IsZero() && credit.IsZero():
			violations = append(violations, apperrors.Violation{
				EntryIndex: entryIndex,
				LineIndex:  lineIndex,
				Code:       apperrors.CodeEmptyLine,
				Message:    "a line must carry either a debit or a credit amount",
			})
		}
	}

	line := domain.PostingLine{
		AccountID:   strings.TrimSpace(req.AccountID),
		Description: req.Description,
		Debit:       debit,
		Credit:      credit,
		Sequence:    lineIndex,
	}
	return line, violations
}

// parseAmount parses an exact fixed-point decimal string. Empty strings are
// treated as zero so callers can send only the side of the line they use.
// Binary floats never enter the pipeline.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative: %s", s)
	}
	return d, nil
}

// validateEntrySet re-checks a set of already-normalized entries. The reversal
// engine runs constructed compensating entries through this before committing
// them, so a reversal is held to the same balance invariant as user input.
func validateEntrySet(entries []domain.JournalEntry) []apperrors.Violation {
	var violations []apperrors.Violation
	for i := range entries {
		entry := &entries[i]
		if len(entry.Lines) == 0 {
			violations = append(violations, apperrors.Violation{
				EntryIndex: i,
				LineIndex:  -1,
				Code:       apperrors.CodeEmptyEntry,
				Message:    "entry must contain at least one posting line",
			})
			continue
		}
		for j, line := range entry.Lines {
			if line.Debit.IsPositive() == line.Credit.IsPositive() {
				code := apperrors.CodeEmptyLine
				if line.Debit.IsPositive() {
					code = apperrors.CodeAmbiguousLine
				}
				violations = append(violations, apperrors.Violation{
					EntryIndex: i,
					LineIndex:  j,
					Code:       code,
					Message:    "exactly one of debit and credit must be positive",
				})
			}
		}
		if !entry.IsBalanced() {
			debit, credit := entry.DeriveTotals()
			violations = append(violations, apperrors.Violation{
				EntryIndex: i,
				LineIndex:  -1,
				Code:       apperrors.CodeUnbalancedEntry,
				Message:    fmt.Sprintf("entry does not balance: debits sum to %s, credits sum to %s", debit.String(), credit.String()),
			})
		}
	}
	return violations
}
