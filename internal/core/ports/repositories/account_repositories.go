package repositories

import (
	"context"

	"github.com/docuflow/ledgercore/internal/core/domain"
)

// AccountReader defines read-only access to the chart of accounts. The ledger
// core never writes accounts; it only checks that referenced accounts exist.
type AccountReader interface {
	// FindAccountByID retrieves a single account scoped to a company.
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves several accounts at once, keyed by account ID.
	// IDs that do not exist are simply absent from the result map.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)
}
