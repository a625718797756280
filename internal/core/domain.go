package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	// Transaction is a single ledger record. Type and Amount are immutable
	// after creation; the ledger never mutates or deletes records.
	Transaction struct {
		ID          string
		Type        TransactionType
		Amount      Money
		Category    string // expense only
		Description string
		Date        time.Time
	}

	// TransactionInput is what callers provide; ID and Date are generated
	// by the ledger when absent.
	TransactionInput struct {
		Type        TransactionType
		Amount      Money
		Category    string
		Description string
		Date        time.Time
	}

	UserProfile struct {
		ID            string
		Name          string
		MonthlyIncome Money
		CreatedAt     time.Time
	}

	UserInput struct {
		Name          string
		MonthlyIncome Money
	}

	// WalletBalance is the derived monthly snapshot. It is recomputed on
	// demand and never persisted.
	WalletBalance struct {
		Total         Money
		Spent         Money
		Remaining     Money
		MonthlyBudget Money
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyName       = errors.New("empty name")
	ErrZeroDate        = errors.New("date cannot be zero")
	ErrDescriptionLong = errors.New("description too long (max 200 characters)")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if tx.Type == Expense && strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if len(tx.Description) > 200 {
		return ErrDescriptionLong
	}
	if tx.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (p UserProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if err := p.MonthlyIncome.Validate(); err != nil {
		return err
	}
	return nil
}
