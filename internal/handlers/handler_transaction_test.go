package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docuflow/ledgercore/internal/apperrors"
	"github.com/docuflow/ledgercore/internal/core/domain"
	portssvc "github.com/docuflow/ledgercore/internal/core/ports/services"
	"github.com/docuflow/ledgercore/internal/dto"
	"github.com/docuflow/ledgercore/internal/handlers"
	"github.com/docuflow/ledgercore/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) CreateAtomicTransaction(ctx context.Context, companyID string, req dto.CreateAtomicTransactionRequest, creatorUserID string) (*dto.AtomicTransactionResponse, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AtomicTransactionResponse), args.Error(1)
}

func (m *MockLedgerService) Rollback(ctx context.Context, companyID, transactionID, userID string) (*dto.RollbackResponse, error) {
	args := m.Called(ctx, companyID, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RollbackResponse), args.Error(1)
}

func (m *MockLedgerService) GetTransactionStatus(ctx context.Context, companyID, transactionID string) (*dto.TransactionStatusResponse, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionStatusResponse), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockLedgerService) ListTransactionGroups(ctx context.Context, companyID string, params dto.ListTransactionGroupsParams) (*dto.ListTransactionGroupsResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionGroupsResponse), args.Error(1)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

// --- Test Suite Setup ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockLedgerService  *MockLedgerService
	mockAccountService *MockAccountService
	jwtSecret          string
	companyID          string
	userID             string
}

func (suite *TransactionHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledgercore-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.mockLedgerService = new(MockLedgerService)
	suite.mockAccountService = new(MockAccountService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Ledger:  suite.mockLedgerService,
		Account: suite.mockAccountService,
	})
}

func (suite *TransactionHandlerTestSuite) doJSON(method, url string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, url, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TransactionHandlerTestSuite) createRequestBody() dto.CreateAtomicTransactionRequest {
	return dto.CreateAtomicTransactionRequest{
		CurrencyCode: "USD",
		Entries: []dto.CreateEntryRequest{
			{
				Description: "Invoice settlement",
				Lines: []dto.CreatePostingLineRequest{
					{AccountID: uuid.NewString(), DebitAmount: "1000.00"},
					{AccountID: uuid.NewString(), CreditAmount: "1000.00"},
				},
			},
		},
	}
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	body := suite.createRequestBody()
	completedAt := time.Now().UTC()
	expected := &dto.AtomicTransactionResponse{
		TransactionID: uuid.NewString(),
		Status:        domain.Completed,
		TotalDebit:    decimal.RequireFromString("1000.00"),
		TotalCredit:   decimal.RequireFromString("1000.00"),
		EntryCount:    1,
		CompletedAt:   &completedAt,
	}

	suite.mockLedgerService.On("CreateAtomicTransaction",
		mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateAtomicTransactionRequest"), suite.userID).
		Return(expected, nil).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/transactions", suite.companyID), body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AtomicTransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.TransactionID, resp.TransactionID)
	suite.Equal(domain.Completed, resp.Status)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_ValidationFailure() {
	body := suite.createRequestBody()
	body.Entries[0].Lines[1].CreditAmount = "900.00"

	verrs := apperrors.NewValidationErrors([]apperrors.Violation{
		{EntryIndex: 0, LineIndex: -1, Code: apperrors.CodeUnbalancedEntry, Message: "entry does not balance: debits sum to 1000, credits sum to 900"},
	})
	suite.mockLedgerService.On("CreateAtomicTransaction",
		mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateAtomicTransactionRequest"), suite.userID).
		Return(nil, verrs).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/transactions", suite.companyID), body)

	suite.Equal(http.StatusBadRequest, w.Code)

	var envelope struct {
		Error struct {
			Kind       string                `json:"kind"`
			Detail     string                `json:"detail"`
			Violations []apperrors.Violation `json:"violations"`
		} `json:"error"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &envelope))
	suite.Equal("VALIDATION_FAILED", envelope.Error.Kind)
	suite.Require().Len(envelope.Error.Violations, 1)
	suite.Equal(apperrors.CodeUnbalancedEntry, envelope.Error.Violations[0].Code)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_MalformedBody() {
	url := fmt.Sprintf("/api/v1/companies/%s/transactions", suite.companyID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(`{"currencyCode":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "CreateAtomicTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_MissingToken() {
	url := fmt.Sprintf("/api/v1/companies/%s/transactions", suite.companyID)
	raw, _ := json.Marshal(suite.createRequestBody())
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "CreateAtomicTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestRollback_Success() {
	transactionID := uuid.NewString()
	expected := &dto.RollbackResponse{
		ReversalTransactionID: uuid.NewString(),
		OriginalTransactionID: transactionID,
		Status:                domain.Completed,
		TotalDebit:            decimal.RequireFromString("1000.00"),
		TotalCredit:           decimal.RequireFromString("1000.00"),
	}
	suite.mockLedgerService.On("Rollback", mock.Anything, suite.companyID, transactionID, suite.userID).
		Return(expected, nil).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/transactions/%s/rollback", suite.companyID, transactionID), nil)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.RollbackResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.ReversalTransactionID, resp.ReversalTransactionID)
	suite.Equal(transactionID, resp.OriginalTransactionID)
}

func (suite *TransactionHandlerTestSuite) TestRollback_AlreadyRolledBack() {
	transactionID := uuid.NewString()
	suite.mockLedgerService.On("Rollback", mock.Anything, suite.companyID, transactionID, suite.userID).
		Return(nil, fmt.Errorf("transaction already rolled back: %w", apperrors.ErrInvalidState)).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/companies/%s/transactions/%s/rollback", suite.companyID, transactionID), nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "INVALID_STATE")
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFound() {
	transactionID := uuid.NewString()
	suite.mockLedgerService.On("GetTransactionStatus", mock.Anything, suite.companyID, transactionID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/companies/%s/transactions/%s", suite.companyID, transactionID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "NOT_FOUND")
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_Success() {
	transactionID := uuid.NewString()
	expected := &dto.TransactionStatusResponse{
		TransactionID: transactionID,
		CompanyID:     suite.companyID,
		Status:        domain.Completed,
		TotalDebit:    decimal.RequireFromString("1000.00"),
		TotalCredit:   decimal.RequireFromString("1000.00"),
		EntryCount:    1,
		Entries: []dto.JournalEntryResponse{
			{
				EntryID:      uuid.NewString(),
				CurrencyCode: "USD",
				TotalDebit:   decimal.RequireFromString("1000.00"),
				TotalCredit:  decimal.RequireFromString("1000.00"),
			},
		},
	}
	suite.mockLedgerService.On("GetTransactionStatus", mock.Anything, suite.companyID, transactionID).
		Return(expected, nil).Once()

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/companies/%s/transactions/%s", suite.companyID, transactionID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransactionStatusResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(transactionID, resp.TransactionID)
	suite.Len(resp.Entries, 1)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_PassesParams() {
	suite.mockLedgerService.On("ListTransactions", mock.Anything, suite.companyID,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
			return p.Limit == 5 && p.Offset == 10
		})).Return(&dto.ListTransactionsResponse{}, nil).Once()

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/companies/%s/transactions?limit=5&offset=10", suite.companyID), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestListTransactionGroups_StatusFilter() {
	suite.mockLedgerService.On("ListTransactionGroups", mock.Anything, suite.companyID,
		mock.MatchedBy(func(p dto.ListTransactionGroupsParams) bool {
			return p.Status != nil && *p.Status == domain.RolledBack
		})).Return(&dto.ListTransactionGroupsResponse{}, nil).Once()

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/companies/%s/transaction-groups?status=ROLLED_BACK", suite.companyID), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestGetAccount_Success() {
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:    accountID,
		CompanyID:    suite.companyID,
		Name:         "Operating cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.mockAccountService.On("GetAccountByID", mock.Anything, suite.companyID, accountID).
		Return(account, nil).Once()

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/companies/%s/accounts/%s", suite.companyID, accountID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(accountID, resp.AccountID)
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
