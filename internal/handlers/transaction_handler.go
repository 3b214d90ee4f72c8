package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "goalstash/internal/errors"
	"goalstash/internal/models"
	"goalstash/internal/pagination"
	"goalstash/internal/services"
)

// TransactionHandler handles deposit and withdrawal requests
type TransactionHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService, auditService: auditService}
}

// CreateTransactionRequest represents the transaction creation request payload
type CreateTransactionRequest struct {
	Type   string `json:"type" binding:"required,transaction_type"`
	Amount string `json:"amount" binding:"required"`
	Date   string `json:"date" binding:"omitempty"`
}

// transactionListQuery holds the query parameters for transaction listings.
type transactionListQuery struct {
	pagination.PageRequest
	Type     string `form:"type" binding:"omitempty,transaction_type"`
	FromDate string `form:"from_date"`
	ToDate   string `form:"to_date"`
}

// filter converts the bound query parameters into a service-level filter.
func (q *transactionListQuery) filter() (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if q.Type != "" {
		txType := models.TransactionType(q.Type)
		filter.Type = &txType
	}
	if q.FromDate != "" {
		from, err := parseFlexibleTime(q.FromDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		filter.FromDate = &from
	}
	if q.ToDate != "" {
		to, err := parseFlexibleTime(q.ToDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		filter.ToDate = &to
	}
	return filter, nil
}

// CreateTransaction handles recording a deposit or withdrawal against a goal
// @Summary     Record a transaction
// @Description Record a deposit or withdrawal against a goal. Returns the updated goal alongside the new transaction.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Param       request body CreateTransactionRequest true "Transaction data"
// @Success     201 {object} models.Transaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidAmount)
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = parseFlexibleTime(req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	goal, transaction, err := h.ledgerService.ApplyTransaction(userID, goalID, amount, models.TransactionType(req.Type), date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "transaction.create", "transaction", transaction.ID, c.ClientIP(), map[string]interface{}{
		"goal_id": goalID,
		"type":    transaction.Type,
		"amount":  transaction.Amount,
	})

	c.JSON(http.StatusCreated, gin.H{
		"transaction": transaction,
		"goal":        goal,
	})
}

// GetGoalTransactions handles listing a single goal's transactions
// @Summary     List a goal's transactions
// @Description Get the transactions recorded against a goal, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Param       type query string false "Filter by type (deposit or withdrawal)"
// @Param       from_date query string false "Only transactions on or after this date"
// @Param       to_date query string false "Only transactions on or before this date"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/transactions [get]
func (h *TransactionHandler) GetGoalTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query transactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := query.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.ledgerService.GetGoalTransactions(userID, goalID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetUserTransactions handles listing all of the user's transactions
// @Summary     List transactions
// @Description Get the user's transactions across all goals, newest first. Transactions whose goal has been deleted are excluded.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Param       type query string false "Filter by type (deposit or withdrawal)"
// @Param       from_date query string false "Only transactions on or after this date"
// @Param       to_date query string false "Only transactions on or before this date"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query transactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := query.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.ledgerService.GetUserTransactions(userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}
