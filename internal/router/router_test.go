package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"earnwallet/internal/config"
	"earnwallet/internal/models"
	"earnwallet/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*mux.Router, store.Store) {
	t.Helper()
	st := store.NewMemory()
	cfg := config.Config{
		Port:      "0",
		JWTSecret: "test-secret",
		DevAuth:   true,
	}
	return SetupRouter(st, cfg, zerolog.Nop()), st
}

func do(t *testing.T, r *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// login mints a dev token and registers the identity through /auth/user,
// the same two calls a fresh client makes.
func login(t *testing.T, r *mux.Router, email string) (token, userID string) {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/api/v1/auth/dev-token", "", map[string]string{"email": email})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var minted struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	decode(t, rec, &minted)
	require.NotEmpty(t, minted.Token)
	require.NotEmpty(t, minted.UserID)

	rec = do(t, r, http.MethodGet, "/api/v1/auth/user", minted.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return minted.Token, minted.UserID
}

func loginAdmin(t *testing.T, r *mux.Router, st store.Store, email string) (token, userID string) {
	t.Helper()
	token, userID = login(t, r, email)
	require.NoError(t, st.SetUserRole(context.Background(), userID, string(models.RoleAdmin)))
	return token, userID
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthenticationRequired(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/api/v1/wallet/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/v1/wallet/stats", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDevTokenRouteDisabledByDefault(t *testing.T) {
	st := store.NewMemory()
	r := SetupRouter(st, config.Config{Port: "0", JWTSecret: "test-secret"}, zerolog.Nop())

	rec := do(t, r, http.MethodPost, "/api/v1/auth/dev-token", "", map[string]string{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCurrentUserUpsert(t *testing.T) {
	r, st := newTestRouter(t)
	token, userID := login(t, r, "ada@example.com")

	user, err := st.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, string(models.RoleUser), user.Role)

	// A repeat call is a no-op, not a conflict.
	rec := do(t, r, http.MethodGet, "/api/v1/auth/user", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDepositEndpoint(t *testing.T) {
	r, st := newTestRouter(t)
	token, userID := login(t, r, "ada@example.com")

	rec := do(t, r, http.MethodPost, "/api/v1/wallet/deposit", token, map[string]interface{}{
		"amount": "50",
		"method": "bank_transfer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	user, err := st.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(50)))
}

func TestDepositRejectsNonJSONContentType(t *testing.T) {
	r, _ := newTestRouter(t)
	token, _ := login(t, r, "ada@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/deposit", bytes.NewBufferString("amount=50"))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_content_type")
}

func TestDepositValidationResponse(t *testing.T) {
	r, _ := newTestRouter(t)
	token, _ := login(t, r, "ada@example.com")

	rec := do(t, r, http.MethodPost, "/api/v1/wallet/deposit", token, map[string]interface{}{
		"amount": "5",
		"method": "bank_transfer",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error  string             `json:"error"`
		Errors []models.FieldError `json:"errors"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "validation_error", resp.Error)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "amount", resp.Errors[0].Field)
}

func TestWithdrawalApprovalFlow(t *testing.T) {
	r, st := newTestRouter(t)
	userToken, userID := login(t, r, "ada@example.com")
	adminToken, _ := loginAdmin(t, r, st, "boss@example.com")

	rec := do(t, r, http.MethodPost, "/api/v1/wallet/deposit", userToken, map[string]interface{}{
		"amount": "100",
		"method": "paypal",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/api/v1/wallet/withdrawal", userToken, map[string]interface{}{
		"amount": "40",
		"method": "paypal",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Transaction models.Transaction `json:"transaction"`
	}
	decode(t, rec, &created)
	assert.Equal(t, models.TransactionStatusPending, created.Transaction.Status)

	// The request shows up in the admin queue.
	rec = do(t, r, http.MethodGet, "/api/v1/admin/withdrawals/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var queue []models.PendingWithdrawal
	decode(t, rec, &queue)
	require.Len(t, queue, 1)
	assert.Equal(t, created.Transaction.ID, queue[0].ID)
	assert.Equal(t, "ada@example.com", queue[0].User.Email)

	rec = do(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/admin/withdrawals/%d", created.Transaction.ID), adminToken,
		map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	user, err := st.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(60)))

	// Resolving the same withdrawal again is rejected.
	rec = do(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/admin/withdrawals/%d", created.Transaction.ID), adminToken,
		map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_transition")
}

func TestInsufficientBalanceResponse(t *testing.T) {
	r, _ := newTestRouter(t)
	token, _ := login(t, r, "ada@example.com")

	rec := do(t, r, http.MethodPost, "/api/v1/wallet/withdrawal", token, map[string]interface{}{
		"amount": "30",
		"method": "paypal",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_balance")
}

func TestAdminRoutesForbiddenForRegularUsers(t *testing.T) {
	r, _ := newTestRouter(t)
	token, _ := login(t, r, "ada@example.com")

	for _, path := range []string{"/api/v1/admin/stats", "/api/v1/admin/users", "/api/v1/admin/withdrawals/pending"} {
		rec := do(t, r, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestTaskEndpoints(t *testing.T) {
	r, st := newTestRouter(t)
	token, userID := login(t, r, "ada@example.com")

	rec := do(t, r, http.MethodGet, "/api/v1/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []models.Task
	decode(t, rec, &tasks)
	assert.Len(t, tasks, len(models.TaskCatalog))

	rec = do(t, r, http.MethodPost, "/api/v1/tasks/3/complete", token, map[string]string{})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	user, err := st.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(10)))

	rec = do(t, r, http.MethodPost, "/api/v1/tasks/99/complete", token, map[string]string{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserStatusEndpoint(t *testing.T) {
	r, st := newTestRouter(t)
	_, userID := login(t, r, "ada@example.com")
	adminToken, _ := loginAdmin(t, r, st, "boss@example.com")

	rec := do(t, r, http.MethodPatch, "/api/v1/admin/users/"+userID+"/status", adminToken,
		map[string]bool{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	user, err := st.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	// A missing is_active field is a validation error, not a suspension.
	rec = do(t, r, http.MethodPatch, "/api/v1/admin/users/"+userID+"/status", adminToken,
		map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionHistoryEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	token, _ := login(t, r, "ada@example.com")

	rec := do(t, r, http.MethodGet, "/api/v1/wallet/transactions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	do(t, r, http.MethodPost, "/api/v1/wallet/deposit", token, map[string]interface{}{
		"amount": "50",
		"method": "paypal",
	})

	rec = do(t, r, http.MethodGet, "/api/v1/wallet/transactions?type=deposit", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var transactions []models.Transaction
	decode(t, rec, &transactions)
	require.Len(t, transactions, 1)
	assert.Equal(t, models.TransactionTypeDeposit, transactions[0].Type)

	rec = do(t, r, http.MethodGet, "/api/v1/wallet/transactions?type=transfer", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
