package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finpulse/internal/core"
	"finpulse/internal/store"
)

func june(day int) time.Time {
	return time.Date(2026, 6, day, 12, 0, 0, 0, time.UTC)
}

func TestBuildDashboard(t *testing.T) {
	snap := store.Snapshot{
		Accounts: []core.Account{
			{ID: "a1", Name: "Checking", Type: core.Bank, Balance: core.Money{Cents: 1200_00}},
			{ID: "a2", Name: "Card", Type: core.CreditCard, Balance: core.Money{Cents: -300_00}},
		},
		Transactions: []core.Transaction{
			{ID: "t1", AccountID: "a1", Type: core.Income, Recurrence: core.OneTime, Category: "Salary", Amount: core.Money{Cents: 500_00}, Date: june(1)},
			{ID: "t2", AccountID: "a1", Type: core.Expense, Recurrence: core.OneTime, Category: "Food", Amount: core.Money{Cents: 80_00}, Date: june(2)},
			{ID: "t3", AccountID: "a1", Type: core.Expense, Recurrence: core.OneTime, Category: "Food", Amount: core.Money{Cents: 20_00}, Date: june(3)},
			{ID: "t4", AccountID: "a1", Type: core.Expense, Recurrence: core.OneTime, Category: "Rent", Amount: core.Money{Cents: 400_00}, Date: june(4)},
			// Transfers and loans never count as income or expense.
			{ID: "t5", AccountID: "a1", ToAccountID: "a2", Type: core.Transfer, Recurrence: core.OneTime, Category: "Self Transfer", Amount: core.Money{Cents: 50_00}, Date: june(5)},
			{ID: "t6", AccountID: "a1", Type: core.Lent, Recurrence: core.OneTime, Category: "Friend", Person: "Sam", Amount: core.Money{Cents: 30_00}, Date: june(6)},
			// Outside the requested month.
			{ID: "t7", AccountID: "a1", Type: core.Expense, Recurrence: core.OneTime, Category: "Food", Amount: core.Money{Cents: 999_00}, Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	summary := buildDashboard(snap, 2026, 6)

	assert.Equal(t, int64(900_00), summary.NetWorth.Cents)
	assert.Equal(t, int64(500_00), summary.MonthIncome.Cents)
	assert.Equal(t, int64(500_00), summary.MonthExpense.Cents)

	require.Len(t, summary.ByCategory, 2)
	assert.Equal(t, CategoryRow{Category: "Rent", Amount: core.Money{Cents: 400_00}}, summary.ByCategory[0])
	assert.Equal(t, CategoryRow{Category: "Food", Amount: core.Money{Cents: 100_00}}, summary.ByCategory[1])
}

func TestDashboardEndpointInvalidatesOnMutation(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/dashboard?year=2026&month=6", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var before DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &before))
	assert.Equal(t, int64(1050_00), before.NetWorth.Cents)

	rec = doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"accountId": "a1",
		"type":      "EXPENSE",
		"subtype":   "ONE_TIME",
		"category":  "Food",
		"amount":    5000,
		"date":      june(10),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/api/dashboard?year=2026&month=6", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var after DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.Equal(t, int64(1000_00), after.NetWorth.Cents, "mutation purges the cached summary")
	assert.Equal(t, int64(5000), after.MonthExpense.Cents)
}

func TestDashboardEndpointRejectsBadMonth(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/dashboard?year=2026&month=13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
