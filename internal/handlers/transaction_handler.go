package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/services"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// AddTransactionRequest represents the create-transaction request payload
type AddTransactionRequest struct {
	UserID      string    `json:"userid" binding:"required"`
	Amount      float64   `json:"amount" binding:"required"`
	Type        string    `json:"type" binding:"required,transaction_type"`
	Category    string    `json:"category" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Reference   string    `json:"reference"`
	Description string    `json:"description"`
}

// TransactionPayload represents the partial fields of a transaction update
type TransactionPayload struct {
	Amount      *float64   `json:"amount"`
	Type        *string    `json:"type" binding:"omitempty,transaction_type"`
	Category    *string    `json:"category"`
	Date        *time.Time `json:"date"`
	Reference   *string    `json:"reference"`
	Description *string    `json:"description"`
}

// EditTransactionRequest represents the edit-transaction request payload
type EditTransactionRequest struct {
	TransactionID string             `json:"transactionId" binding:"required"`
	Payload       TransactionPayload `json:"payload"`
}

// DeleteTransactionRequest represents the delete-transaction request payload
type DeleteTransactionRequest struct {
	TransactionID string `json:"transactionId" binding:"required"`
}

// ListTransactionsRequest represents the filtered-list request payload.
// Frequency is either a number of days or "custom"; with "custom",
// SelectedRange must carry the inclusive [start, end] pair.
type ListTransactionsRequest struct {
	UserID        string      `json:"userid" binding:"required"`
	Frequency     string      `json:"frequency" binding:"required,frequency"`
	SelectedRange []time.Time `json:"selectedRange"`
	Type          string      `json:"type" binding:"required"`
}

// AddTransaction creates a new transaction.
// @Summary     Add a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body AddTransactionRequest true "Transaction data"
// @Success     201 {object} map[string]interface{} "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /add-transaction [post]
func (h *TransactionHandler) AddTransaction(c *gin.Context) {
	var req AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		req.UserID,
		req.Amount,
		models.TransactionType(req.Type),
		req.Category,
		req.Date,
		req.Reference,
		req.Description,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg":         "Transaction Added Successfully",
		"transaction": transaction,
	})
}

// EditTransaction applies a partial update to a transaction by ID.
// @Summary     Edit a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body EditTransactionRequest true "Transaction ID and payload"
// @Success     200 {object} map[string]interface{} "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /edit-transaction [post]
func (h *TransactionHandler) EditTransaction(c *gin.Context) {
	var req EditTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.TransactionUpdate{
		Amount:      req.Payload.Amount,
		Category:    req.Payload.Category,
		Date:        req.Payload.Date,
		Reference:   req.Payload.Reference,
		Description: req.Payload.Description,
	}
	if req.Payload.Type != nil {
		t := models.TransactionType(*req.Payload.Type)
		update.Type = &t
	}

	transaction, err := h.transactionService.UpdateTransaction(req.TransactionID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":         "Transaction Updated Successfully",
		"transaction": transaction,
	})
}

// DeleteTransaction removes a transaction by ID.
// @Summary     Delete a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body DeleteTransactionRequest true "Transaction ID"
// @Success     200 {object} map[string]string "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /delete-transaction [post]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	var req DeleteTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.transactionService.DeleteTransaction(req.TransactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Transaction Deleted Successfully"})
}

// GetAllTransactions returns a user's transactions filtered by date window and type.
// @Summary     List transactions
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body ListTransactionsRequest true "Filter criteria"
// @Success     200 {array} models.Transaction "Matching transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /get-all-transaction [post]
func (h *TransactionHandler) GetAllTransactions(c *gin.Context) {
	var req ListTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transactions, err := h.transactionService.ListTransactions(req.UserID, req.Frequency, req.SelectedRange, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}
