//go:build integration

package pgsql_test

import (
	"context"
	"testing"
	"time"

	"github.com/docuflow/ledgercore/internal/adapters/database/pgsql"
	"github.com/docuflow/ledgercore/internal/apperrors"
	"github.com/docuflow/ledgercore/internal/core/domain"
	portsrepo "github.com/docuflow/ledgercore/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	journal   *pgsql.PgxJournalRepository
	registry  portsrepo.TransactionRegistry
	accounts  portsrepo.AccountReader
	companyID string
	userID    string
	cashID    string
	revenueID string
}

func (suite *RepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledgercore_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	m, err := migrate.New("file://../../../../migrations", connStr)
	suite.Require().NoError(err)
	suite.Require().NoError(m.Up())
	_, _ = m.Close()

	pool, err := pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)
	suite.pool = pool

	suite.journal = pgsql.NewPgxJournalRepository(pool)
	suite.registry = pgsql.NewPgxTransactionRepository(pool, suite.journal)
	suite.accounts = pgsql.NewPgxAccountRepository(pool)
}

func (suite *RepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RepositoryIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.cashID = suite.insertAccount(ctx, "Operating cash", domain.Asset)
	suite.revenueID = suite.insertAccount(ctx, "Sales revenue", domain.Revenue)
}

func (suite *RepositoryIntegrationTestSuite) insertAccount(ctx context.Context, name string, accountType domain.AccountType) string {
	accountID := uuid.NewString()
	now := time.Now().UTC()
	_, err := suite.pool.Exec(ctx, `
		INSERT INTO accounts (account_id, company_id, name, account_type, currency_code, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, 'USD', '', TRUE, $5, $6, $5, $6);`,
		accountID, suite.companyID, name, string(accountType), now, suite.userID)
	suite.Require().NoError(err)
	return accountID
}

func (suite *RepositoryIntegrationTestSuite) buildTransaction(idempotencyKey *string) domain.AtomicTransaction {
	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: suite.userID, LastUpdatedAt: now, LastUpdatedBy: suite.userID}
	transactionID := uuid.NewString()
	entryID := uuid.NewString()
	amount := decimal.RequireFromString("1000.00")

	entry := domain.JournalEntry{
		EntryID:       entryID,
		TransactionID: transactionID,
		Description:   "Invoice settlement",
		CurrencyCode:  "USD",
		TotalDebit:    amount,
		TotalCredit:   amount,
		Sequence:      0,
		AuditFields:   audit,
		Lines: []domain.PostingLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashID, Debit: amount, Credit: decimal.Zero, Sequence: 0, AuditFields: audit},
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.revenueID, Debit: decimal.Zero, Credit: amount, Sequence: 1, AuditFields: audit},
		},
	}

	completedAt := now
	return domain.AtomicTransaction{
		TransactionID:  transactionID,
		CompanyID:      suite.companyID,
		Status:         domain.Completed,
		IdempotencyKey: idempotencyKey,
		TotalDebit:     amount,
		TotalCredit:    amount,
		EntryCount:     1,
		CompletedAt:    &completedAt,
		Entries:        []domain.JournalEntry{entry},
		AuditFields:    audit,
	}
}

func (suite *RepositoryIntegrationTestSuite) TestSaveAndFindTransaction() {
	ctx := context.Background()
	txn := suite.buildTransaction(nil)

	suite.Require().NoError(suite.registry.SaveCompletedTransaction(ctx, txn, nil))

	found, err := suite.registry.FindTransactionByID(ctx, suite.companyID, txn.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.Completed, found.Status)
	suite.True(found.TotalDebit.Equal(txn.TotalDebit))
	suite.Equal(1, found.EntryCount)

	entries, err := suite.journal.GetEntriesByTransaction(ctx, txn.TransactionID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Require().Len(entries[0].Lines, 2)
	suite.True(entries[0].Lines[0].Debit.Equal(txn.TotalDebit))
	suite.True(entries[0].Lines[1].Credit.Equal(txn.TotalCredit))
}

func (suite *RepositoryIntegrationTestSuite) TestFindTransaction_NotFound() {
	_, err := suite.registry.FindTransactionByID(context.Background(), suite.companyID, uuid.NewString())
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RepositoryIntegrationTestSuite) TestIdempotencyKeyCollision() {
	ctx := context.Background()
	key := "order-" + uuid.NewString()

	first := suite.buildTransaction(&key)
	suite.Require().NoError(suite.registry.SaveCompletedTransaction(ctx, first, nil))

	second := suite.buildTransaction(&key)
	err := suite.registry.SaveCompletedTransaction(ctx, second, nil)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	// The losing write left nothing behind.
	_, err = suite.registry.FindTransactionByID(ctx, suite.companyID, second.TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	found, err := suite.registry.FindTransactionByIdempotencyKey(ctx, suite.companyID, key)
	suite.Require().NoError(err)
	suite.Equal(first.TransactionID, found.TransactionID)
}

func (suite *RepositoryIntegrationTestSuite) TestSaveReversalFlipsOriginalOnce() {
	ctx := context.Background()
	original := suite.buildTransaction(nil)
	suite.Require().NoError(suite.registry.SaveCompletedTransaction(ctx, original, nil))

	rolledBackAt := time.Now().UTC()
	reversal := suite.buildTransaction(nil)
	reversal.ReversalOf = &original.TransactionID
	// Swap sides on the reversal lines.
	lines := reversal.Entries[0].Lines
	lines[0].Debit, lines[0].Credit = lines[0].Credit, lines[0].Debit
	lines[1].Debit, lines[1].Credit = lines[1].Credit, lines[1].Debit

	suite.Require().NoError(suite.registry.SaveReversal(ctx, reversal, original.TransactionID, rolledBackAt))

	flipped, err := suite.registry.FindTransactionByID(ctx, suite.companyID, original.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.RolledBack, flipped.Status)
	suite.Require().NotNil(flipped.ReversedBy)
	suite.Equal(reversal.TransactionID, *flipped.ReversedBy)
	suite.NotNil(flipped.RolledBackAt)

	// A second reversal attempt loses the compare-and-set and writes nothing.
	again := suite.buildTransaction(nil)
	again.ReversalOf = &original.TransactionID
	err = suite.registry.SaveReversal(ctx, again, original.TransactionID, time.Now().UTC())
	suite.ErrorIs(err, apperrors.ErrInvalidState)

	_, err = suite.registry.FindTransactionByID(ctx, suite.companyID, again.TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RepositoryIntegrationTestSuite) TestGroupRoundTrip() {
	ctx := context.Background()
	now := time.Now().UTC()
	group := &domain.TransactionGroup{
		GroupID:     uuid.NewString(),
		CompanyID:   suite.companyID,
		Name:        "March invoices",
		Description: "Monthly billing run",
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: suite.userID, LastUpdatedAt: now, LastUpdatedBy: suite.userID},
	}
	txn := suite.buildTransaction(nil)
	txn.GroupID = &group.GroupID

	suite.Require().NoError(suite.registry.SaveCompletedTransaction(ctx, txn, group))

	summaries, err := suite.registry.ListTransactionGroups(ctx, suite.companyID, nil, 10)
	suite.Require().NoError(err)
	suite.Require().Len(summaries, 1)
	suite.Equal(group.GroupID, summaries[0].Group.GroupID)
	suite.Equal([]string{txn.TransactionID}, summaries[0].TransactionIDs)
	suite.Equal(1, summaries[0].TransactionCount)
}

func (suite *RepositoryIntegrationTestSuite) TestListTransactionsNewestFirst() {
	ctx := context.Background()

	first := suite.buildTransaction(nil)
	suite.Require().NoError(suite.registry.SaveCompletedTransaction(ctx, first, nil))
	second := suite.buildTransaction(nil)
	second.CreatedAt = second.CreatedAt.Add(time.Second)
	suite.Require().NoError(suite.registry.SaveCompletedTransaction(ctx, second, nil))

	txns, err := suite.registry.ListTransactionsByCompany(ctx, suite.companyID, 10, 0)
	suite.Require().NoError(err)
	suite.Require().Len(txns, 2)
	suite.Equal(second.TransactionID, txns[0].TransactionID)
	suite.Equal(first.TransactionID, txns[1].TransactionID)
}

func (suite *RepositoryIntegrationTestSuite) TestAccountReader() {
	ctx := context.Background()

	account, err := suite.accounts.FindAccountByID(ctx, suite.companyID, suite.cashID)
	suite.Require().NoError(err)
	suite.Equal("Operating cash", account.Name)
	suite.True(account.IsActive)

	accounts, err := suite.accounts.FindAccountsByIDs(ctx, suite.companyID, []string{suite.cashID, suite.revenueID, uuid.NewString()})
	suite.Require().NoError(err)
	suite.Len(accounts, 2)
}

func TestRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration suite in short mode")
	}
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}
