package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/docuflow/ledgercore/internal/core/ports/services"
	"github.com/docuflow/ledgercore/internal/dto"
	"github.com/docuflow/ledgercore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for atomic ledger transactions.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ledgerService portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{
		ledgerService: ledgerService,
	}
}

// createTransaction accepts a group of posting entries and commits them as a
// single all-or-nothing transaction.
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	createReq := dto.CreateAtomicTransactionRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		respondWithBindError(c, err)
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": errorBody{Kind: "UNAUTHORIZED", Detail: "missing authenticated user"}})
		return
	}

	resp, err := h.ledgerService.CreateAtomicTransaction(c.Request.Context(), companyID, createReq, creatorUserID)
	if err != nil {
		logger.Warn("Failed to create atomic transaction", slog.String("error", err.Error()), slog.String("company_id", companyID))
		respondWithError(c, err)
		return
	}

	logger.Info("Atomic transaction committed",
		slog.String("transaction_id", resp.TransactionID),
		slog.Int("entry_count", resp.EntryCount),
	)
	c.JSON(http.StatusCreated, resp)
}

// rollbackTransaction commits a compensating reversal for a completed
// transaction and marks the original ROLLED_BACK.
func (h *transactionHandler) rollbackTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": errorBody{Kind: "UNAUTHORIZED", Detail: "missing authenticated user"}})
		return
	}

	resp, err := h.ledgerService.Rollback(c.Request.Context(), companyID, transactionID, userID)
	if err != nil {
		logger.Warn("Failed to roll back transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		respondWithError(c, err)
		return
	}

	logger.Info("Transaction rolled back",
		slog.String("original_transaction_id", resp.OriginalTransactionID),
		slog.String("reversal_transaction_id", resp.ReversalTransactionID),
	)
	c.JSON(http.StatusCreated, resp)
}

// getTransaction retrieves a transaction with its journal entries and lines.
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	resp, err := h.ledgerService.GetTransactionStatus(c.Request.Context(), companyID, transactionID)
	if err != nil {
		logger.Warn("Failed to get transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listTransactions retrieves transaction summaries for a company, newest first.
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	params := dto.ListTransactionsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for listTransactions", slog.String("error", err.Error()))
		respondWithBindError(c, err)
		return
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), companyID, params)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("company_id", companyID))
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listTransactionGroups retrieves group summaries with their member
// transaction IDs, optionally filtered by status.
func (h *transactionHandler) listTransactionGroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	params := dto.ListTransactionGroupsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for listTransactionGroups", slog.String("error", err.Error()))
		respondWithBindError(c, err)
		return
	}

	resp, err := h.ledgerService.ListTransactionGroups(c.Request.Context(), companyID, params)
	if err != nil {
		logger.Error("Failed to list transaction groups", slog.String("error", err.Error()), slog.String("company_id", companyID))
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// registerTransactionRoutes registers the transaction routes on the
// company-scoped group.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
		txns.POST("/:transactionID/rollback", h.rollbackTransaction)
	}

	groups := rg.Group("/transaction-groups")
	{
		groups.GET("", h.listTransactionGroups)
	}
}
