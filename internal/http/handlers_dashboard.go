package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"finpulse/internal/core"
	"finpulse/internal/store"
)

// DashboardSummary is the aggregate view for one month: net worth across
// all accounts plus income, expense, and per-category expense totals for
// the month. Transfers move money between accounts and count in neither
// income nor expense.
type DashboardSummary struct {
	Year         int           `json:"year"`
	Month        int           `json:"month"`
	NetWorth     core.Money    `json:"netWorth"`
	MonthIncome  core.Money    `json:"monthIncome"`
	MonthExpense core.Money    `json:"monthExpense"`
	ByCategory   []CategoryRow `json:"byCategory"`
}

type CategoryRow struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			WriteError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		month = m
	}

	key := fmt.Sprintf("%d-%02d", year, month)
	if summary, ok := s.dashCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "year", year, "month", month)
		WriteJSON(w, http.StatusOK, summary)
		return
	}

	summary := buildDashboard(s.svc.Snapshot(), year, month)
	s.dashCache.Set(key, summary)
	WriteJSON(w, http.StatusOK, summary)
}

// buildDashboard folds the snapshot into a month summary. Lent reduces
// and Borrowed increases liquid balance but neither is income or expense,
// matching the balance rules.
func buildDashboard(snap store.Snapshot, year, month int) DashboardSummary {
	summary := DashboardSummary{Year: year, Month: month}

	for _, a := range snap.Accounts {
		summary.NetWorth = summary.NetWorth.Add(a.Balance)
	}

	byCategory := make(map[string]core.Money)
	for _, t := range snap.Transactions {
		if t.Date.Year() != year || int(t.Date.Month()) != month {
			continue
		}
		switch t.Type {
		case core.Income:
			summary.MonthIncome = summary.MonthIncome.Add(t.Amount)
		case core.Expense:
			summary.MonthExpense = summary.MonthExpense.Add(t.Amount)
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		}
	}

	for category, amount := range byCategory {
		summary.ByCategory = append(summary.ByCategory, CategoryRow{Category: category, Amount: amount})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		if summary.ByCategory[i].Amount.Cents != summary.ByCategory[j].Amount.Cents {
			return summary.ByCategory[i].Amount.Cents > summary.ByCategory[j].Amount.Cents
		}
		return summary.ByCategory[i].Category < summary.ByCategory[j].Category
	})

	return summary
}
