package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/docuflow/ledgercore/internal/core/ports/services"
	"github.com/docuflow/ledgercore/internal/dto"
	"github.com/docuflow/ledgercore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles read requests for ledger accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(accountService portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: accountService,
	}
}

// getAccount retrieves a single account scoped to the company.
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), companyID, accountID)
	if err != nil {
		logger.Warn("Failed to get account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// registerAccountRoutes registers the account routes on the company-scoped group.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:accountID", h.getAccount)
	}
}
