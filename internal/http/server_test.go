package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finpulse/internal/core"
	"finpulse/internal/insights"
	"finpulse/internal/services"
	"finpulse/internal/store"
)

type stubGenerator struct {
	observations []string
	err          error
}

func (g *stubGenerator) Observations(context.Context, []core.Transaction, []core.Goal) ([]string, error) {
	return g.observations, g.err
}

func newTestServer(t *testing.T, gen *stubGenerator) *Server {
	t.Helper()
	st := store.New(store.Snapshot{
		Accounts: []core.Account{
			{ID: "a1", Name: "Checking", Type: core.Bank, Balance: core.Money{Cents: 1000_00}},
			{ID: "a2", Name: "Wallet", Type: core.Cash, Balance: core.Money{Cents: 50_00}},
		},
		Preferences: core.Preferences{UserName: "Tester", Currency: "$", Language: "en"},
	})
	svc := services.NewFinanceService(st, nil, nil)
	if gen == nil {
		gen = &stubGenerator{observations: []string{"ok"}}
	}
	srv := NewServer(":0", svc, insights.NewService(gen), 20)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/accounts", map[string]any{
		"name": "Savings", "type": "Bank", "balance": 250000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created core.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID, "server assigns an id when the client omits one")
	assert.Equal(t, int64(250000), created.Balance.Cents)

	rec = doJSON(t, srv, http.MethodGet, "/api/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var accounts []core.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	assert.Len(t, accounts, 3)

	rec = doJSON(t, srv, http.MethodPut, "/api/accounts/"+created.ID, map[string]any{
		"name": "Emergency Savings", "type": "Bank", "balance": 250000,
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodDelete, "/api/accounts/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/accounts/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAccountRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/accounts", map[string]any{
		"name": "", "type": "Bank",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/accounts", map[string]any{
		"id": "a1", "name": "Clone", "type": "Bank",
	})
	assert.Equal(t, http.StatusConflict, rec.Code, "duplicate id")

	req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewBufferString("{not json"))
	rec2 := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestTransactionEndpointsAdjustBalances(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"accountId": "a1",
		"type":      "EXPENSE",
		"subtype":   "ONE_TIME",
		"category":  "Food",
		"amount":    4200,
		"date":      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var txn core.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txn))

	rec = doJSON(t, srv, http.MethodGet, "/api/accounts", nil)
	var accounts []core.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	assert.Equal(t, int64(1000_00-4200), accounts[0].Balance.Cents)

	rec = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+txn.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/accounts", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	assert.Equal(t, int64(1000_00), accounts[0].Balance.Cents)
}

func TestTransactionValidationErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	// Transfer without a destination is a client error, not a silent no-op.
	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"accountId": "a1",
		"type":      "TRANSFER",
		"subtype":   "ONE_TIME",
		"category":  "Self Transfer",
		"amount":    100,
		"date":      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"accountId": "ghost",
		"type":      "EXPENSE",
		"subtype":   "ONE_TIME",
		"category":  "Food",
		"amount":    100,
		"date":      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code, "unknown account reference")
}

func TestTransactionListLimit(t *testing.T) {
	srv := newTestServer(t, nil)

	for i := 0; i < 5; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
			"accountId": "a1",
			"type":      "INCOME",
			"subtype":   "ONE_TIME",
			"category":  "Salary",
			"amount":    100,
			"date":      time.Date(2026, 6, 1+i, 0, 0, 0, 0, time.UTC),
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/transactions?limit=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var txns []core.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txns))
	assert.Len(t, txns, 3)

	rec = doJSON(t, srv, http.MethodGet, "/api/transactions?limit=nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var prefs core.Preferences
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefs))
	assert.Equal(t, "Tester", prefs.UserName)

	rec = doJSON(t, srv, http.MethodPut, "/api/settings", map[string]any{"isDarkMode": true})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefs))
	assert.True(t, prefs.DarkMode)
	assert.Equal(t, "Tester", prefs.UserName, "partial update leaves other fields alone")
}

func TestInsightsEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{observations: []string{"Cut subscriptions.", "Goal on track."}})

	rec := doJSON(t, srv, http.MethodGet, "/api/insights", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Cut subscriptions.", "Goal on track."}, body["insights"])
}

func TestInsightsEndpointFallsBack(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{err: errors.New("quota exhausted")})

	rec := doJSON(t, srv, http.MethodGet, "/api/insights", nil)
	require.Equal(t, http.StatusOK, rec.Code, "insight failures never surface as HTTP errors")

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{insights.FallbackMessage}, body["insights"])
}

func TestCategoriesEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cats map[core.TransactionType][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	assert.Contains(t, cats[core.Income], "Salary")
	assert.Contains(t, cats[core.Expense], "Food")
}
