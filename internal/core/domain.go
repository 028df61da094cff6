package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"
	Lent     TransactionType = "LENT"
	Borrowed TransactionType = "BORROWED"
)

const (
	OneTime   Recurrence = "ONE_TIME"
	Recurring Recurrence = "RECURRING"
)

const (
	Cash       AccountType = "Cash"
	Bank       AccountType = "Bank"
	CreditCard AccountType = "Credit Card"
	Investment AccountType = "Investment"
)

type (
	TransactionType string

	Recurrence string

	AccountType string

	// Money is an amount in integer cents. It marshals to and from a bare
	// JSON number of cents.
	Money struct {
		Cents int64
	}

	// Account is a named balance-holding entity. Balance is denormalized
	// state kept in sync by the balance-adjustment protocol, never
	// recomputed from transaction history.
	Account struct {
		ID         string      `json:"id"`
		Name       string      `json:"name"`
		Type       AccountType `json:"type"`
		Balance    Money       `json:"balance"`
		CardNumber string      `json:"cardNumber,omitempty"`
		Color      string      `json:"color,omitempty"`
	}

	// Transaction is a dated, typed movement of money affecting one or two
	// accounts. Amount is always positive; direction is implied by Type.
	Transaction struct {
		ID          string          `json:"id"`
		AccountID   string          `json:"accountId"`
		ToAccountID string          `json:"toAccountId,omitempty"`
		Person      string          `json:"person,omitempty"`
		Type        TransactionType `json:"type"`
		Recurrence  Recurrence      `json:"subtype"`
		Category    string          `json:"category"`
		Amount      Money           `json:"amount"`
		Date        time.Time       `json:"date"`
		Description string          `json:"description"`
	}

	// Goal is a savings target tracked independently of transaction history.
	// CurrentAmount is maintained by hand, not derived.
	Goal struct {
		ID            string    `json:"id"`
		Name          string    `json:"name"`
		TargetAmount  Money     `json:"targetAmount"`
		CurrentAmount Money     `json:"currentAmount"`
		Deadline      time.Time `json:"deadline"`
		Icon          string    `json:"icon,omitempty"`
	}

	// Budget is a per-category spending cap, also maintained by hand.
	Budget struct {
		ID            string `json:"id"`
		Category      string `json:"category"`
		Limit         Money  `json:"limit"`
		CurrentAmount Money  `json:"currentAmount"`
		Icon          string `json:"icon,omitempty"`
	}

	// Preferences holds the process-wide user settings.
	Preferences struct {
		UserName string `json:"userName"`
		Currency string `json:"currency"`
		Language string `json:"language"`
		DarkMode bool   `json:"isDarkMode"`
	}
)

var (
	ErrEmptyID           = errors.New("empty id")
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidAccount    = errors.New("invalid account type")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrInvalidCategory   = errors.New("category not allowed for transaction type")
	ErrMissingAccount    = errors.New("missing source account id")
	ErrMissingToAccount  = errors.New("transfer requires a destination account")
	ErrSameAccount       = errors.New("transfer source and destination must differ")
	ErrMissingPerson     = errors.New("lent/borrowed requires a person")
	ErrZeroDate          = errors.New("date cannot be zero")
)

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Cents, 10)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	cents, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return errors.New("money must be an integer number of cents")
	}
	m.Cents = cents
	return nil
}

// Neg returns the amount with its sign flipped.
func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

// Add returns the sum of the two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t AccountType) Valid() bool {
	switch t {
	case Cash, Bank, CreditCard, Investment:
		return true
	}
	return false
}

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Transfer, Lent, Borrowed:
		return true
	}
	return false
}

func (r Recurrence) Valid() bool {
	switch r {
	case OneTime, Recurring:
		return true
	}
	return false
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.Valid() {
		return ErrInvalidAccount
	}
	return nil
}

// Validate checks the structural rules for a transaction: positive amount,
// a valid type/recurrence pair, a category allowed for the type, and the
// type-specific references (destination account for transfers, person for
// lent/borrowed).
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrMissingAccount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !t.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if !CategoryAllowed(t.Type, t.Category) {
		return ErrInvalidCategory
	}
	switch t.Type {
	case Transfer:
		if strings.TrimSpace(t.ToAccountID) == "" {
			return ErrMissingToAccount
		}
		if t.ToAccountID == t.AccountID {
			return ErrSameAccount
		}
	case Lent, Borrowed:
		if strings.TrimSpace(t.Person) == "" {
			return ErrMissingPerson
		}
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if g.Deadline.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyName
	}
	if err := b.Limit.Validate(); err != nil {
		return err
	}
	if b.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
