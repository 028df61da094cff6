package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTransaction_Validate(t *testing.T) {
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	valid := Transaction{
		ID:          "t1",
		AccountID:   "acc-1",
		Type:        Expense,
		Recurrence:  OneTime,
		Category:    "Food",
		Amount:      Money{Cents: 1500},
		Date:        date,
		Description: "lunch",
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{
			name:    "valid expense",
			mutate:  func(*Transaction) {},
			wantErr: nil,
		},
		{
			name:    "empty id",
			mutate:  func(tx *Transaction) { tx.ID = " " },
			wantErr: ErrEmptyID,
		},
		{
			name:    "missing account",
			mutate:  func(tx *Transaction) { tx.AccountID = "" },
			wantErr: ErrMissingAccount,
		},
		{
			name:    "unknown type",
			mutate:  func(tx *Transaction) { tx.Type = "REFUND" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "unknown recurrence",
			mutate:  func(tx *Transaction) { tx.Recurrence = "WEEKLY" },
			wantErr: ErrInvalidRecurrence,
		},
		{
			name:    "zero amount",
			mutate:  func(tx *Transaction) { tx.Amount = Money{} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(tx *Transaction) { tx.Amount = Money{Cents: -100} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "zero date",
			mutate:  func(tx *Transaction) { tx.Date = time.Time{} },
			wantErr: ErrZeroDate,
		},
		{
			name:    "category from wrong type",
			mutate:  func(tx *Transaction) { tx.Category = "Salary" },
			wantErr: ErrInvalidCategory,
		},
		{
			name: "transfer without destination",
			mutate: func(tx *Transaction) {
				tx.Type = Transfer
				tx.Category = "Self Transfer"
			},
			wantErr: ErrMissingToAccount,
		},
		{
			name: "transfer to itself",
			mutate: func(tx *Transaction) {
				tx.Type = Transfer
				tx.Category = "Self Transfer"
				tx.ToAccountID = tx.AccountID
			},
			wantErr: ErrSameAccount,
		},
		{
			name: "valid transfer",
			mutate: func(tx *Transaction) {
				tx.Type = Transfer
				tx.Category = "Self Transfer"
				tx.ToAccountID = "acc-2"
			},
			wantErr: nil,
		},
		{
			name: "lent without person",
			mutate: func(tx *Transaction) {
				tx.Type = Lent
				tx.Category = "Friend"
			},
			wantErr: ErrMissingPerson,
		},
		{
			name: "valid borrowed",
			mutate: func(tx *Transaction) {
				tx.Type = Borrowed
				tx.Category = "Bank Loan"
				tx.Person = "Sam"
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		wantErr error
	}{
		{
			name:    "valid bank account",
			account: Account{ID: "a1", Name: "Personal Account", Type: Bank},
			wantErr: nil,
		},
		{
			name:    "empty id",
			account: Account{Name: "Personal Account", Type: Bank},
			wantErr: ErrEmptyID,
		},
		{
			name:    "empty name",
			account: Account{ID: "a1", Type: Bank},
			wantErr: ErrEmptyName,
		},
		{
			name:    "unknown account type",
			account: Account{ID: "a1", Name: "Vault", Type: "Crypto"},
			wantErr: ErrInvalidAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.account.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	if got := Categories(Transfer); len(got) != 2 {
		t.Errorf("Categories(Transfer) = %v, want 2 entries", got)
	}
	if Categories("UNKNOWN") != nil {
		t.Error("Categories of unknown type should be nil")
	}
	if !CategoryAllowed(Income, "Salary") {
		t.Error("Salary should be an income category")
	}
	if CategoryAllowed(Income, "Food") {
		t.Error("Food must not be an income category")
	}
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Amount Money `json:"amount"`
	}

	data, err := json.Marshal(wrapper{Amount: Money{Cents: 65000}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"amount":65000}` {
		t.Errorf("marshalled money = %s, want bare cents", data)
	}

	var back wrapper
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Amount.Cents != 65000 {
		t.Errorf("round-tripped cents = %d, want 65000", back.Amount.Cents)
	}

	if err := json.Unmarshal([]byte(`{"amount":"12.50"}`), &back); err == nil {
		t.Error("unmarshal of non-integer money should fail")
	}
}
