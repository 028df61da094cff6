package store

import (
	"time"

	"finpulse/internal/core"
)

// Snapshot is the complete serializable state of all entities plus user
// preferences at one instant. Its JSON shape is the persisted-state layout:
// a single object with the entity collections and the flattened preference
// fields, no version marker.
type Snapshot struct {
	Accounts     []core.Account     `json:"accounts"`
	Transactions []core.Transaction `json:"transactions"`
	Goals        []core.Goal        `json:"goals"`
	Budgets      []core.Budget      `json:"budgets"`

	core.Preferences
}

// Clone returns an independent copy of the snapshot. Entities are plain
// value types, so copying the slices is a full deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Accounts = append([]core.Account(nil), s.Accounts...)
	out.Transactions = append([]core.Transaction(nil), s.Transactions...)
	out.Goals = append([]core.Goal(nil), s.Goals...)
	out.Budgets = append([]core.Budget(nil), s.Budgets...)
	return out
}

// Seed returns the built-in starter snapshot used when no persisted data
// exists yet (or the persisted data cannot be read).
func Seed() Snapshot {
	return Snapshot{
		Accounts: []core.Account{
			{
				ID:         "1",
				Name:       "Personal Account",
				Type:       core.Bank,
				Balance:    core.Money{Cents: 145_200_00},
				CardNumber: "**** **** **** 9010",
				Color:      "indigo",
			},
			{
				ID:         "2",
				Name:       "Business Card",
				Type:       core.CreditCard,
				Balance:    core.Money{Cents: 8_400_00},
				CardNumber: "**** **** **** 1288",
				Color:      "slate",
			},
		},
		Transactions: []core.Transaction{
			{
				ID:          "txn-001",
				AccountID:   "1",
				Type:        core.Income,
				Recurrence:  core.Recurring,
				Category:    "Salary",
				Amount:      core.Money{Cents: 65_000_00},
				Date:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				Description: "Monthly salary credit",
			},
		},
		Goals: []core.Goal{
			{
				ID:            "g1",
				Name:          "New Tesla",
				TargetAmount:  core.Money{Cents: 180_000_00},
				CurrentAmount: core.Money{Cents: 45_000_00},
				Deadline:      time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
				Icon:          "🚗",
			},
			{
				ID:            "g2",
				Name:          "Home Downpay",
				TargetAmount:  core.Money{Cents: 500_000_00},
				CurrentAmount: core.Money{Cents: 120_000_00},
				Deadline:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
				Icon:          "🏠",
			},
		},
		Budgets: []core.Budget{
			{
				ID:            "b1",
				Category:      "Grocery",
				Limit:         core.Money{Cents: 12_000_00},
				CurrentAmount: core.Money{Cents: 5_000_00},
				Icon:          "🛒",
			},
			{
				ID:            "b2",
				Category:      "Entertainment",
				Limit:         core.Money{Cents: 5_000_00},
				CurrentAmount: core.Money{Cents: 2_500_00},
				Icon:          "🎬",
			},
		},
		Preferences: core.Preferences{
			UserName: "Piyush Bhandari",
			Currency: "₹",
			Language: "en",
			DarkMode: false,
		},
	}
}
