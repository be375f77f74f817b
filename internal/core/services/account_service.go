package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/docuflow/ledgercore/internal/apperrors"
	"github.com/docuflow/ledgercore/internal/core/domain"
	portsrepo "github.com/docuflow/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/docuflow/ledgercore/internal/core/ports/services"
	"github.com/docuflow/ledgercore/internal/middleware"
)

// accountService gives the ledger core read-only access to the chart of
// accounts. Catalog maintenance is owned by a separate service.
type accountService struct {
	accountRepo portsrepo.AccountReader
}

// NewAccountService creates a read-only account facade.
func NewAccountService(accountRepo portsrepo.AccountReader) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	return s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
}
