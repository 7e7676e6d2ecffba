package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
	"spendtrack/internal/services"
)

// TransactionHandler handles transaction-related requests. Mutations echo
// the full transaction collection so clients can replace their optimistic
// local state with the authoritative one.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the request payload for creating or
// updating a transaction.
type TransactionRequest struct {
	Date        string          `json:"date" binding:"required"`
	Status      string          `json:"status" binding:"required,transaction_status"`
	Category    string          `json:"category" binding:"required"`
	// A zero amount is legal, so no required tag here; negative amounts are
	// rejected by the service.
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" binding:"required,iso4217"`
	Description string          `json:"description" binding:"max=500"`
}

// echoTransactions writes the full transaction collection alongside extra
// response fields.
func (h *TransactionHandler) echoTransactions(c *gin.Context, statusCode int, extra gin.H) {
	transactions, err := h.transactionService.ListTransactions(services.TransactionFilter{})
	if err != nil {
		respondWithError(c, err)
		return
	}
	body := gin.H{"transactions": transactions}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record an earned or spent amount. Spent transactions deduct from matching active plans. Returns the full transaction collection.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} map[string]interface{} "Created transaction and full collection"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Anti-forgery token mismatch"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		date,
		models.TransactionStatus(req.Status),
		req.Category,
		req.Amount,
		req.Currency,
		req.Description,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.echoTransactions(c, http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions handles the retrieval of all transactions
// @Summary     List transactions
// @Description List transactions with optional filters, amounts converted into the display currency
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       from_date query string false "Filter by start date (YYYY-MM-DD)"
// @Param       to_date   query string false "Filter by end date (YYYY-MM-DD)"
// @Param       status    query string false "Filter by status (earned, spent)"
// @Param       category  query string false "Filter by category name"
// @Param       currency  query string false "Display currency (defaults to configured currency)"
// @Success     200 {object} map[string]interface{} "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	views, err := h.transactionService.ListTransactionViews(c.Request.Context(), filter, displayCurrency(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": views})
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Success     200 {object} map[string]interface{} "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles updating an existing transaction
// @Summary     Update transaction
// @Description Replace a transaction's fields. Plan balances are reconciled by refunding the old spent amount before deducting the new one. Returns the full transaction collection.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id      path int                true "Transaction ID"
// @Param       request body TransactionRequest true "New field values"
// @Success     200 {object} map[string]interface{} "Updated transaction and full collection"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Anti-forgery token mismatch"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(
		transactionID,
		date,
		models.TransactionStatus(req.Status),
		req.Category,
		req.Amount,
		req.Currency,
		req.Description,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.echoTransactions(c, http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete transaction
// @Description Delete a transaction by ID, refunding its amount to matching plans when it was spent. Returns the full transaction collection.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Success     200 {object} map[string]interface{} "Deletion message and full collection"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     403 {object} ErrorResponse "Anti-forgery token mismatch"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.echoTransactions(c, http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
