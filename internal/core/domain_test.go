package core

import (
	"errors"
	"testing"
	"time"
)

func TestTransaction_Validate(t *testing.T) {
	date := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		tx      Transaction
		wantErr error
	}{
		{
			name: "valid expense",
			tx: Transaction{
				Type:     Expense,
				Amount:   Money{Cents: 28000},
				Category: "food",
				Date:     date,
			},
		},
		{
			name: "valid income without category",
			tx: Transaction{
				Type:   Income,
				Amount: Money{Cents: 500000},
				Date:   date,
			},
		},
		{
			name: "zero amount is allowed",
			tx: Transaction{
				Type:     Expense,
				Amount:   Money{Cents: 0},
				Category: "misc",
				Date:     date,
			},
		},
		{
			name: "negative amount rejected",
			tx: Transaction{
				Type:     Expense,
				Amount:   Money{Cents: -1},
				Category: "food",
				Date:     date,
			},
			wantErr: ErrNegativeAmount,
		},
		{
			name: "unknown type rejected",
			tx: Transaction{
				Type:   TransactionType("transfer"),
				Amount: Money{Cents: 100},
				Date:   date,
			},
			wantErr: ErrInvalidType,
		},
		{
			name: "expense without category rejected",
			tx: Transaction{
				Type:   Expense,
				Amount: Money{Cents: 100},
				Date:   date,
			},
			wantErr: ErrEmptyCategory,
		},
		{
			name: "zero date rejected",
			tx: Transaction{
				Type:     Expense,
				Amount:   Money{Cents: 100},
				Category: "food",
			},
			wantErr: ErrZeroDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
		wantErr error
	}{
		{
			name:    "valid profile",
			profile: UserProfile{Name: "Asha", MonthlyIncome: Money{Cents: 3000000}},
		},
		{
			name:    "blank name rejected",
			profile: UserProfile{Name: "   ", MonthlyIncome: Money{Cents: 100}},
			wantErr: ErrEmptyName,
		},
		{
			name:    "negative income rejected",
			profile: UserProfile{Name: "Asha", MonthlyIncome: Money{Cents: -100}},
			wantErr: ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransaction_DescriptionLimit(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}
	tx := Transaction{
		Type:        Expense,
		Amount:      Money{Cents: 100},
		Category:    "food",
		Description: string(long),
		Date:        time.Now(),
	}
	if err := tx.Validate(); !errors.Is(err, ErrDescriptionLong) {
		t.Errorf("Validate() = %v, want %v", err, ErrDescriptionLong)
	}
}
