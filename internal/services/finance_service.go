// Package services orchestrates the documented mutation contracts on top
// of the store: balance adjustments around transaction lifecycle changes,
// snapshot persistence after every mutation, and mutation events for the
// archive worker.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"finpulse/internal/amqp"
	"finpulse/internal/core"
	"finpulse/internal/store"
)

// SnapshotSaver persists the snapshot after a mutation. Saving is
// fire-and-forget: a failed save leaves the in-memory state correct but
// unpersisted, and is only logged.
type SnapshotSaver interface {
	Save(store.Snapshot) error
}

// EventPublisher announces applied mutations to the archive worker.
type EventPublisher interface {
	PublishMutation(ctx context.Context, event *amqp.MutationEvent) error
}

// FinanceService owns every user-level mutation. Operations that span
// several store dispatches (the balance protocol around a transaction
// edit, for one) run under the service mutex so they are atomic with
// respect to each other.
type FinanceService struct {
	mu        sync.Mutex
	store     *store.Store
	saver     SnapshotSaver
	publisher EventPublisher
}

func NewFinanceService(st *store.Store, saver SnapshotSaver, publisher EventPublisher) *FinanceService {
	return &FinanceService{
		store:     st,
		saver:     saver,
		publisher: publisher,
	}
}

// Snapshot returns a copy of the current state.
func (s *FinanceService) Snapshot() store.Snapshot {
	return s.store.State()
}

// RecentTransactions returns up to limit transactions, newest first, for
// the insight collaborator.
func (s *FinanceService) RecentTransactions(limit int) []core.Transaction {
	txns := s.store.State().Transactions
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns
}

// Goals returns the full goals list.
func (s *FinanceService) Goals() []core.Goal {
	return s.store.State().Goals
}

// CreateAccount validates and appends a new account.
func (s *FinanceService) CreateAccount(ctx context.Context, account core.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Dispatch(store.AddAccount{Account: account}); err != nil {
		return err
	}
	s.afterMutation(ctx, "account.add", account.ID)
	return nil
}

// UpdateAccount replaces the account with the matching id.
func (s *FinanceService) UpdateAccount(ctx context.Context, account core.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Dispatch(store.UpdateAccount{Account: account}); err != nil {
		return err
	}
	s.afterMutation(ctx, "account.update", account.ID)
	return nil
}

// DeleteAccount removes the account and cascades to every transaction that
// references it. No compensating balance pass runs: the account and its
// transaction effects vanish together.
func (s *FinanceService) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Dispatch(store.DeleteAccount{ID: id}); err != nil {
		return err
	}
	s.afterMutation(ctx, "account.delete", id)
	return nil
}

// CreateTransaction appends the transaction and applies its balance
// effects.
func (s *FinanceService) CreateTransaction(ctx context.Context, txn core.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAccountRefs(txn); err != nil {
		return err
	}
	if err := s.store.Dispatch(store.AddTransaction{Transaction: txn}); err != nil {
		return err
	}
	if err := s.applyEffects(txn, core.Apply); err != nil {
		return err
	}
	s.afterMutation(ctx, "transaction.add", txn.ID)
	return nil
}

// UpdateTransaction edits a transaction by reversing the balance effects of
// the old values, replacing the record, and applying the effects of the new
// values. Reverse-then-reapply is the contract, never a diff: it stays
// correct when the kind, amount, or account references all change at once.
func (s *FinanceService) UpdateTransaction(ctx context.Context, txn core.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.findTransaction(txn.ID)
	if !ok {
		return fmt.Errorf("transaction %s: %w", txn.ID, store.ErrTransactionNotFound)
	}
	if err := s.checkAccountRefs(txn); err != nil {
		return err
	}

	if err := s.applyEffects(old, core.Reverse); err != nil {
		return err
	}
	if err := s.store.Dispatch(store.UpdateTransaction{Transaction: txn}); err != nil {
		return err
	}
	if err := s.applyEffects(txn, core.Apply); err != nil {
		return err
	}
	s.afterMutation(ctx, "transaction.update", txn.ID)
	return nil
}

// DeleteTransaction reverses the balance effects of the stored transaction
// and removes it.
func (s *FinanceService) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.findTransaction(id)
	if !ok {
		return fmt.Errorf("transaction %s: %w", id, store.ErrTransactionNotFound)
	}

	if err := s.applyEffects(old, core.Reverse); err != nil {
		return err
	}
	if err := s.store.Dispatch(store.DeleteTransaction{ID: id}); err != nil {
		return err
	}
	s.afterMutation(ctx, "transaction.delete", id)
	return nil
}

// CreateGoal, UpdateGoal and DeleteGoal are plain CRUD; goal progress is
// maintained by hand and never derived from transactions.
func (s *FinanceService) CreateGoal(ctx context.Context, goal core.Goal) error {
	if err := goal.Validate(); err != nil {
		return err
	}
	return s.simpleMutation(ctx, store.AddGoal{Goal: goal}, "goal.add", goal.ID)
}

func (s *FinanceService) UpdateGoal(ctx context.Context, goal core.Goal) error {
	if err := goal.Validate(); err != nil {
		return err
	}
	return s.simpleMutation(ctx, store.UpdateGoal{Goal: goal}, "goal.update", goal.ID)
}

func (s *FinanceService) DeleteGoal(ctx context.Context, id string) error {
	return s.simpleMutation(ctx, store.DeleteGoal{ID: id}, "goal.delete", id)
}

func (s *FinanceService) CreateBudget(ctx context.Context, budget core.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}
	return s.simpleMutation(ctx, store.AddBudget{Budget: budget}, "budget.add", budget.ID)
}

func (s *FinanceService) UpdateBudget(ctx context.Context, budget core.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}
	return s.simpleMutation(ctx, store.UpdateBudget{Budget: budget}, "budget.update", budget.ID)
}

func (s *FinanceService) DeleteBudget(ctx context.Context, id string) error {
	return s.simpleMutation(ctx, store.DeleteBudget{ID: id}, "budget.delete", id)
}

// UpdateSettings shallow-merges the provided preference fields.
func (s *FinanceService) UpdateSettings(ctx context.Context, patch store.UpdateSettings) error {
	return s.simpleMutation(ctx, patch, "settings.update", "")
}

// Restore replaces the whole state, used by the persistence bridge at
// startup. It does not persist or publish: the loaded data is already
// durable.
func (s *FinanceService) Restore(snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Dispatch(store.LoadSnapshot{Snapshot: snap})
}

func (s *FinanceService) simpleMutation(ctx context.Context, action store.Action, op, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Dispatch(action); err != nil {
		return err
	}
	s.afterMutation(ctx, op, id)
	return nil
}

func (s *FinanceService) findTransaction(id string) (core.Transaction, bool) {
	for _, t := range s.store.State().Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return core.Transaction{}, false
}

// checkAccountRefs verifies every account a transaction references exists,
// so the balance passes below cannot partially apply.
func (s *FinanceService) checkAccountRefs(txn core.Transaction) error {
	snap := s.store.State()
	if !hasAccount(snap, txn.AccountID) {
		return fmt.Errorf("account %s: %w", txn.AccountID, store.ErrAccountNotFound)
	}
	if txn.Type == core.Transfer && !hasAccount(snap, txn.ToAccountID) {
		return fmt.Errorf("account %s: %w", txn.ToAccountID, store.ErrAccountNotFound)
	}
	return nil
}

func (s *FinanceService) applyEffects(txn core.Transaction, d core.Direction) error {
	for _, effect := range core.BalanceEffects(txn, d) {
		err := s.store.Dispatch(store.AdjustBalance{ID: effect.AccountID, Delta: effect.Delta})
		if err != nil {
			return err
		}
	}
	return nil
}

// afterMutation mirrors the new snapshot to durable storage and announces
// the mutation. Both are fire-and-forget; failures are logged and the
// in-memory state stays authoritative.
func (s *FinanceService) afterMutation(ctx context.Context, op, id string) {
	if s.saver != nil {
		if err := s.saver.Save(s.store.State()); err != nil {
			slog.ErrorContext(ctx, "Failed to persist snapshot",
				"op", op, "entity_id", id, "error", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishMutation(ctx, amqp.NewMutationEvent(op, id)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish mutation event",
				"op", op, "entity_id", id, "error", err)
		}
	}
}

func hasAccount(snap store.Snapshot, id string) bool {
	for _, a := range snap.Accounts {
		if a.ID == id {
			return true
		}
	}
	return false
}
