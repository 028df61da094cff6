// Package store holds the canonical in-memory snapshot of all finance
// entities and applies exactly one mutation per dispatched action.
//
// Mutations never edit the visible snapshot in place: every action is
// applied to a private clone which then replaces the previous snapshot
// wholesale. Readers always get an independent copy.
package store

import (
	"errors"
	"fmt"
	"sync"

	"finpulse/internal/core"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrDuplicateID         = errors.New("duplicate id")
)

// Action is one mutation of the snapshot. The concrete action types below
// form the complete mutation surface of the store.
type Action interface {
	// Name identifies the action in logs and mutation events.
	Name() string
}

type (
	AddAccount    struct{ Account core.Account }
	UpdateAccount struct{ Account core.Account }

	// DeleteAccount removes the account and every transaction referencing
	// it as source or destination. No compensating balance pass runs: the
	// account and its effects vanish together.
	DeleteAccount struct{ ID string }

	// AdjustBalance is the sole primitive for changing an account balance.
	// Callers never dispatch it directly for arbitrary edits; it is driven
	// by the balance-adjustment protocol in the finance service.
	AdjustBalance struct {
		ID    string
		Delta core.Money
	}

	// AddTransaction, UpdateTransaction and DeleteTransaction are pure
	// collection edits. They do not touch balances; the finance service
	// issues the matching AdjustBalance dispatches around them.
	AddTransaction    struct{ Transaction core.Transaction }
	UpdateTransaction struct{ Transaction core.Transaction }
	DeleteTransaction struct{ ID string }

	AddGoal    struct{ Goal core.Goal }
	UpdateGoal struct{ Goal core.Goal }
	DeleteGoal struct{ ID string }

	AddBudget    struct{ Budget core.Budget }
	UpdateBudget struct{ Budget core.Budget }
	DeleteBudget struct{ ID string }

	// UpdateSettings shallow-merges the non-nil fields into preferences.
	UpdateSettings struct {
		UserName *string
		Currency *string
		Language *string
		DarkMode *bool
	}

	// LoadSnapshot replaces the entire state, used by the persistence
	// bridge at startup.
	LoadSnapshot struct{ Snapshot Snapshot }
)

func (AddAccount) Name() string        { return "account.add" }
func (UpdateAccount) Name() string     { return "account.update" }
func (DeleteAccount) Name() string     { return "account.delete" }
func (AdjustBalance) Name() string     { return "account.adjust_balance" }
func (AddTransaction) Name() string    { return "transaction.add" }
func (UpdateTransaction) Name() string { return "transaction.update" }
func (DeleteTransaction) Name() string { return "transaction.delete" }
func (AddGoal) Name() string           { return "goal.add" }
func (UpdateGoal) Name() string        { return "goal.update" }
func (DeleteGoal) Name() string        { return "goal.delete" }
func (AddBudget) Name() string         { return "budget.add" }
func (UpdateBudget) Name() string      { return "budget.update" }
func (DeleteBudget) Name() string      { return "budget.delete" }
func (UpdateSettings) Name() string    { return "settings.update" }
func (LoadSnapshot) Name() string      { return "snapshot.load" }

// Store is the single owner of the snapshot. All mutations pass through
// Dispatch, serialized by the mutex, so two mutations can never interleave.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// New creates a store holding the given initial snapshot.
func New(initial Snapshot) *Store {
	return &Store{snap: initial.Clone()}
}

// State returns an independent copy of the current snapshot.
func (s *Store) State() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Dispatch applies one action. On success the previous snapshot is replaced
// wholesale; on error the state is left untouched. Mutations against a
// stale id fail with a typed not-found error rather than silently doing
// nothing, so callers can surface the problem.
func (s *Store) Dispatch(action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	if err := reduce(&next, action); err != nil {
		return err
	}
	s.snap = next
	return nil
}

func reduce(snap *Snapshot, action Action) error {
	switch a := action.(type) {
	case AddAccount:
		if accountIndex(snap.Accounts, a.Account.ID) >= 0 {
			return fmt.Errorf("account %s: %w", a.Account.ID, ErrDuplicateID)
		}
		snap.Accounts = append(snap.Accounts, a.Account)

	case UpdateAccount:
		i := accountIndex(snap.Accounts, a.Account.ID)
		if i < 0 {
			return fmt.Errorf("account %s: %w", a.Account.ID, ErrAccountNotFound)
		}
		snap.Accounts[i] = a.Account

	case DeleteAccount:
		i := accountIndex(snap.Accounts, a.ID)
		if i < 0 {
			return fmt.Errorf("account %s: %w", a.ID, ErrAccountNotFound)
		}
		snap.Accounts = append(snap.Accounts[:i], snap.Accounts[i+1:]...)
		kept := snap.Transactions[:0]
		for _, t := range snap.Transactions {
			if t.AccountID == a.ID || t.ToAccountID == a.ID {
				continue
			}
			kept = append(kept, t)
		}
		snap.Transactions = kept

	case AdjustBalance:
		i := accountIndex(snap.Accounts, a.ID)
		if i < 0 {
			return fmt.Errorf("account %s: %w", a.ID, ErrAccountNotFound)
		}
		snap.Accounts[i].Balance = snap.Accounts[i].Balance.Add(a.Delta)

	case AddTransaction:
		if transactionIndex(snap.Transactions, a.Transaction.ID) >= 0 {
			return fmt.Errorf("transaction %s: %w", a.Transaction.ID, ErrDuplicateID)
		}
		// Newest first, matching the list the presentation layer shows.
		snap.Transactions = append([]core.Transaction{a.Transaction}, snap.Transactions...)

	case UpdateTransaction:
		i := transactionIndex(snap.Transactions, a.Transaction.ID)
		if i < 0 {
			return fmt.Errorf("transaction %s: %w", a.Transaction.ID, ErrTransactionNotFound)
		}
		snap.Transactions[i] = a.Transaction

	case DeleteTransaction:
		i := transactionIndex(snap.Transactions, a.ID)
		if i < 0 {
			return fmt.Errorf("transaction %s: %w", a.ID, ErrTransactionNotFound)
		}
		snap.Transactions = append(snap.Transactions[:i], snap.Transactions[i+1:]...)

	case AddGoal:
		if goalIndex(snap.Goals, a.Goal.ID) >= 0 {
			return fmt.Errorf("goal %s: %w", a.Goal.ID, ErrDuplicateID)
		}
		snap.Goals = append(snap.Goals, a.Goal)

	case UpdateGoal:
		i := goalIndex(snap.Goals, a.Goal.ID)
		if i < 0 {
			return fmt.Errorf("goal %s: %w", a.Goal.ID, ErrGoalNotFound)
		}
		snap.Goals[i] = a.Goal

	case DeleteGoal:
		i := goalIndex(snap.Goals, a.ID)
		if i < 0 {
			return fmt.Errorf("goal %s: %w", a.ID, ErrGoalNotFound)
		}
		snap.Goals = append(snap.Goals[:i], snap.Goals[i+1:]...)

	case AddBudget:
		if budgetIndex(snap.Budgets, a.Budget.ID) >= 0 {
			return fmt.Errorf("budget %s: %w", a.Budget.ID, ErrDuplicateID)
		}
		snap.Budgets = append(snap.Budgets, a.Budget)

	case UpdateBudget:
		i := budgetIndex(snap.Budgets, a.Budget.ID)
		if i < 0 {
			return fmt.Errorf("budget %s: %w", a.Budget.ID, ErrBudgetNotFound)
		}
		snap.Budgets[i] = a.Budget

	case DeleteBudget:
		i := budgetIndex(snap.Budgets, a.ID)
		if i < 0 {
			return fmt.Errorf("budget %s: %w", a.ID, ErrBudgetNotFound)
		}
		snap.Budgets = append(snap.Budgets[:i], snap.Budgets[i+1:]...)

	case UpdateSettings:
		if a.UserName != nil {
			snap.UserName = *a.UserName
		}
		if a.Currency != nil {
			snap.Currency = *a.Currency
		}
		if a.Language != nil {
			snap.Language = *a.Language
		}
		if a.DarkMode != nil {
			snap.DarkMode = *a.DarkMode
		}

	case LoadSnapshot:
		*snap = a.Snapshot.Clone()

	default:
		return fmt.Errorf("unknown action %T", action)
	}
	return nil
}

func accountIndex(accounts []core.Account, id string) int {
	for i := range accounts {
		if accounts[i].ID == id {
			return i
		}
	}
	return -1
}

func transactionIndex(txns []core.Transaction, id string) int {
	for i := range txns {
		if txns[i].ID == id {
			return i
		}
	}
	return -1
}

func goalIndex(goals []core.Goal, id string) int {
	for i := range goals {
		if goals[i].ID == id {
			return i
		}
	}
	return -1
}

func budgetIndex(budgets []core.Budget, id string) int {
	for i := range budgets {
		if budgets[i].ID == id {
			return i
		}
	}
	return -1
}
