package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "goalstash/internal/errors"
	"goalstash/internal/models"
	"goalstash/internal/pagination"
	"goalstash/internal/services"
)

// --- mock ledger service ---

type mockLedgerService struct {
	applyTransactionFn      func(userID, goalID string, amount decimal.Decimal, txType models.TransactionType, date time.Time) (*models.Goal, *models.Transaction, error)
	getGoalTransactionsFn   func(userID, goalID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getUserTransactionsFn   func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getRecentTransactionsFn func(userID string, limit int) ([]models.Transaction, error)
}

func (m *mockLedgerService) ApplyTransaction(userID, goalID string, amount decimal.Decimal, txType models.TransactionType, date time.Time) (*models.Goal, *models.Transaction, error) {
	if m.applyTransactionFn != nil {
		return m.applyTransactionFn(userID, goalID, amount, txType, date)
	}
	return &models.Goal{}, &models.Transaction{}, nil
}

func (m *mockLedgerService) GetGoalTransactions(userID, goalID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getGoalTransactionsFn != nil {
		return m.getGoalTransactionsFn(userID, goalID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockLedgerService) GetUserTransactions(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockLedgerService) GetRecentTransactions(userID string, limit int) ([]models.Transaction, error) {
	if m.getRecentTransactionsFn != nil {
		return m.getRecentTransactionsFn(userID, limit)
	}
	return []models.Transaction{}, nil
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/goals/:id/transactions", handler.CreateTransaction)
	auth.GET("/goals/:id/transactions", handler.GetGoalTransactions)
	auth.GET("/transactions", handler.GetUserTransactions)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 with goal and transaction", func(t *testing.T) {
		ledgerSvc := &mockLedgerService{
			applyTransactionFn: func(userID, goalID string, amount decimal.Decimal, txType models.TransactionType, _ time.Time) (*models.Goal, *models.Transaction, error) {
				goal := &models.Goal{
					Base:         models.Base{ID: goalID},
					UserID:       userID,
					CurrentTotal: amount,
				}
				tx := &models.Transaction{
					Base:   models.Base{ID: "0198adc1-aaaa-7bbb-8ccc-000000000003"},
					UserID: userID,
					GoalID: goalID,
					Type:   txType,
					Amount: amount,
				}
				return goal, tx, nil
			},
		}
		handler := NewTransactionHandler(ledgerSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/transactions",
			`{"type":"deposit","amount":"25.00"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		if tx["type"] != "deposit" {
			t.Errorf("expected deposit, got %v", tx["type"])
		}
		if result["goal"] == nil {
			t.Error("expected updated goal in the response")
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		handler := NewTransactionHandler(&mockLedgerService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/transactions",
			`{"type":"transfer","amount":"25.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on non-numeric amount", func(t *testing.T) {
		handler := NewTransactionHandler(&mockLedgerService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/transactions",
			`{"type":"deposit","amount":"a lot"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_AMOUNT")
	})

	t.Run("returns 400 on malformed goal ID", func(t *testing.T) {
		handler := NewTransactionHandler(&mockLedgerService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/goals/not-a-uuid/transactions",
			`{"type":"deposit","amount":"25.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on insufficient funds", func(t *testing.T) {
		ledgerSvc := &mockLedgerService{
			applyTransactionFn: func(_, _ string, _ decimal.Decimal, _ models.TransactionType, _ time.Time) (*models.Goal, *models.Transaction, error) {
				return nil, nil, apperrors.ErrInsufficientFunds
			},
		}
		handler := NewTransactionHandler(ledgerSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/transactions",
			`{"type":"withdrawal","amount":"9999.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_FUNDS")
	})

	t.Run("returns 404 when goal not found", func(t *testing.T) {
		ledgerSvc := &mockLedgerService{
			applyTransactionFn: func(_, _ string, _ decimal.Decimal, _ models.TransactionType, _ time.Time) (*models.Goal, *models.Transaction, error) {
				return nil, nil, apperrors.ErrGoalNotFound
			},
		}
		handler := NewTransactionHandler(ledgerSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/transactions",
			`{"type":"deposit","amount":"25.00"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("passes parsed date through", func(t *testing.T) {
		var gotDate time.Time
		ledgerSvc := &mockLedgerService{
			applyTransactionFn: func(_, _ string, amount decimal.Decimal, txType models.TransactionType, date time.Time) (*models.Goal, *models.Transaction, error) {
				gotDate = date
				return &models.Goal{}, &models.Transaction{Type: txType, Amount: amount}, nil
			},
		}
		handler := NewTransactionHandler(ledgerSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/transactions",
			`{"type":"deposit","amount":"25.00","date":"2026-01-15"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotDate.Year() != 2026 || gotDate.Month() != time.January || gotDate.Day() != 15 {
			t.Errorf("expected date 2026-01-15, got %v", gotDate)
		}
	})
}

func TestTransactionHandler_GetGoalTransactions(t *testing.T) {
	t.Run("returns 200 with page", func(t *testing.T) {
		ledgerSvc := &mockLedgerService{
			getGoalTransactionsFn: func(_, _ string, _ pagination.PageRequest, _ services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				resp := pagination.NewPageResponse([]models.Transaction{
					{Type: models.TransactionTypeDeposit},
				}, 1, 20, 1)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(ledgerSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/goals/"+testGoalID+"/transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_items"].(float64) != 1 {
			t.Errorf("expected total_items 1, got %v", result["total_items"])
		}
	})

	t.Run("returns 400 on invalid type filter", func(t *testing.T) {
		handler := NewTransactionHandler(&mockLedgerService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/goals/"+testGoalID+"/transactions?type=transfer", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when goal not found", func(t *testing.T) {
		ledgerSvc := &mockLedgerService{
			getGoalTransactionsFn: func(_, _ string, _ pagination.PageRequest, _ services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				return nil, apperrors.ErrGoalNotFound
			},
		}
		handler := NewTransactionHandler(ledgerSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/goals/"+testGoalID+"/transactions", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetUserTransactions(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		ledgerSvc := &mockLedgerService{
			getUserTransactionsFn: func(_ string, _ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(ledgerSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?type=deposit&from_date=2026-01-01", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeDeposit {
			t.Error("expected deposit type filter")
		}
		if gotFilter.FromDate == nil || gotFilter.FromDate.Year() != 2026 {
			t.Error("expected from_date filter")
		}
	})

	t.Run("returns 400 on bad date filter", func(t *testing.T) {
		handler := NewTransactionHandler(&mockLedgerService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?from_date=whenever", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
