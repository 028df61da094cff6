package core

// Direction is the multiplier for a balance pass: Apply when a transaction
// enters the books, Reverse when it leaves them. Editing a transaction is
// always Reverse against the old values followed by Apply against the new
// ones, never a diff of the two.
type Direction int64

const (
	Apply   Direction = 1
	Reverse Direction = -1
)

// BalanceEffect is one signed delta to apply to a single account.
type BalanceEffect struct {
	AccountID string
	Delta     Money
}

// BalanceEffects derives the account deltas implied by a transaction. It is
// a total function: it never fails, and it does not check that the
// referenced accounts exist.
//
//	INCOME, BORROWED  +amount on AccountID
//	EXPENSE, LENT     -amount on AccountID
//	TRANSFER          -amount on AccountID, +amount on ToAccountID
//
// A transfer with no destination yields no effects at all. Validated
// transactions never hit that branch; it is kept so the protocol stays
// total over arbitrary input.
func BalanceEffects(t Transaction, d Direction) []BalanceEffect {
	signed := Money{Cents: t.Amount.Cents * int64(d)}

	switch t.Type {
	case Income, Borrowed:
		return []BalanceEffect{{AccountID: t.AccountID, Delta: signed}}
	case Expense, Lent:
		return []BalanceEffect{{AccountID: t.AccountID, Delta: signed.Neg()}}
	case Transfer:
		if t.ToAccountID == "" {
			return nil
		}
		return []BalanceEffect{
			{AccountID: t.AccountID, Delta: signed.Neg()},
			{AccountID: t.ToAccountID, Delta: signed},
		}
	}
	return nil
}
