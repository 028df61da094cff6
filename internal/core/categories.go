package core

// categoriesByType maps each transaction type to the categories a
// transaction of that type may carry. Membership is enforced at the
// boundary where transactions are constructed, not inside the store.
var categoriesByType = map[TransactionType][]string{
	Income:   {"Salary", "Freelance", "Gifts", "Investments", "Sales", "Borrowed", "Other"},
	Expense:  {"Food", "Rent", "Utilities", "Transport", "Entertainment", "Health", "Shopping", "Subscriptions", "Lent", "Other"},
	Transfer: {"Self Transfer", "Account Move"},
	Lent:     {"Friend", "Family", "Business", "Other"},
	Borrowed: {"Bank Loan", "Friend", "Family", "Other"},
}

// Categories returns the allowed categories for a transaction type. The
// returned slice is a copy; callers may reorder it freely.
func Categories(t TransactionType) []string {
	cats, ok := categoriesByType[t]
	if !ok {
		return nil
	}
	return append([]string(nil), cats...)
}

// AllCategories returns the full type-to-categories mapping as a copy.
func AllCategories() map[TransactionType][]string {
	all := make(map[TransactionType][]string, len(categoriesByType))
	for t := range categoriesByType {
		all[t] = Categories(t)
	}
	return all
}

// CategoryAllowed reports whether category is valid for the given
// transaction type.
func CategoryAllowed(t TransactionType, category string) bool {
	for _, c := range categoriesByType[t] {
		if c == category {
			return true
		}
	}
	return false
}
