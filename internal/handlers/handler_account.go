package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
	"github.com/SscSPs/travel_settlement/internal/dto"
	"github.com/SscSPs/travel_settlement/internal/middleware"
	"github.com/SscSPs/travel_settlement/internal/utils"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("/:accountID", h.getAccount)
		accounts.GET("/:accountID/balance", h.getAccountBalance)
		accounts.GET("/:accountID/transactions", h.listTransactions)
	}
	rg.GET("/owners/:ownerType/:ownerID/account", h.getAccountByOwner)
}

// createAccount godoc
// @Summary Create a new account
// @Description Registers a ledger account with a zero balance. Provider and agent accounts carry their owner reference.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Account or owner already registered"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create account", slog.String("account_name", req.Name), slog.String("category", string(req.Category)))

	account, err := h.accountService.Create(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account, utils.FormatAmount(account.Balance, account.CurrencyCode)))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves details for a specific account by its ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("account_id", accountID))

	account, err := h.accountService.Get(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account, utils.FormatAmount(account.Balance, account.CurrencyCode)))
}

// getAccountByOwner godoc
// @Summary Get the account of a provider or agent
// @Description Resolves the ledger account owned by a provider or agent
// @Tags accounts
// @Produce  json
// @Param   ownerType path string true "Owner type" Enums(PROVIDER, AGENT)
// @Param   ownerID path string true "Owner ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid owner type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /owners/{ownerType}/{ownerID}/account [get]
func (h *accountHandler) getAccountByOwner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	owner, ok := ownerFromPath(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetByOwner(c.Request.Context(), owner.Type, owner.ID)
	if err != nil {
		respondError(c, logger.With(slog.String("owner_id", owner.ID)), err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account, utils.FormatAmount(account.Balance, account.CurrencyCode)))
}

// getAccountBalance godoc
// @Summary Get account balance
// @Description Retrieves the current balance and version of an account
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Security BearerAuth
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	balance, err := h.accountService.GetAccountBalance(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to retrieve balance")
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID:        balance.AccountID,
		CurrencyCode:     balance.CurrencyCode,
		Balance:          balance.Balance,
		FormattedBalance: utils.FormatAmount(balance.Balance, balance.CurrencyCode),
		Version:          balance.Version,
	})
}

// listTransactions godoc
// @Summary List transactions for an account
// @Description Retrieves a newest-first page of ledger transactions for an account
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   referenceType query string false "Filter by reference type"
// @Param   direction query string false "Filter by direction" Enums(DEBIT, CREDIT)
// @Param   from query string false "Inclusive lower bound (RFC3339)"
// @Param   to query string false "Exclusive upper bound (RFC3339)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token for the next page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /accounts/{accountID}/transactions [get]
func (h *accountHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("account_id", accountID))

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, nextToken, err := h.accountService.ListTransactions(c.Request.Context(), accountID, params.ToFilter())
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns, nextToken))
}
