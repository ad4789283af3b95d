package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
	portssvc "github.com/hduce/eagle_bank_api/internal/core/ports/services"
	"github.com/hduce/eagle_bank_api/internal/dto"
	"github.com/hduce/eagle_bank_api/internal/middleware"
)

// transactionHandler handles HTTP requests for account transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers ledger routes nested under accounts.
func registerTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(ts)

	txns := rg.Group("/accounts/:accountNumber/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
	}
}

// createTransaction godoc
// @Summary Apply a deposit or withdrawal to an account
// @Description Applies a monetary movement to the account, retrying internally on concurrent updates
// @Tags transactions
// @Accept json
// @Produce json
// @Param accountNumber path string true "Account number"
// @Param transaction body dto.CreateTransactionRequest true "Movement details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Malformed amount or account number"
// @Failure 403 {object} map[string]string "Account owned by another user"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient funds or maximum balance exceeded"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	number, err := domain.ParseAccountNumber(c.Param("accountNumber"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, _, err := h.transactionService.CreateTransaction(c.Request.Context(), number, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions for an account
// @Description Returns the account's ledger entries, oldest first
// @Tags transactions
// @Produce json
// @Param accountNumber path string true "Account number"
// @Success 200 {array} dto.TransactionResponse
// @Failure 403 {object} map[string]string "Account owned by another user"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	number, err := domain.ParseAccountNumber(c.Param("accountNumber"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txns, err := h.transactionService.ListTransactions(c.Request.Context(), number, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// getTransaction godoc
// @Summary Get a single transaction
// @Description Returns one ledger entry belonging to the account
// @Tags transactions
// @Produce json
// @Param accountNumber path string true "Account number"
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} map[string]string "Account owned by another user"
// @Failure 404 {object} map[string]string "Account or transaction not found"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	number, err := domain.ParseAccountNumber(c.Param("accountNumber"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), number, c.Param("transactionID"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
