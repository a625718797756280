package core

import "time"

// StartOfMonth returns midnight on the first calendar day of now's month,
// in now's location.
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ComputeBalance derives the monthly wallet snapshot from the ledger.
//
// Only transactions dated on or after the first of now's month count.
// Total is the declared monthly budget plus this month's income; Remaining
// may go negative on overspend, which is valid output rather than an error.
func ComputeBalance(transactions []Transaction, monthlyIncome Money, now time.Time) WalletBalance {
	start := StartOfMonth(now)

	var income, expenses int64
	for _, tx := range transactions {
		if tx.Date.Before(start) {
			continue
		}
		switch tx.Type {
		case Income:
			income += tx.Amount.Cents
		case Expense:
			expenses += tx.Amount.Cents
		}
	}

	total := monthlyIncome.Cents + income
	return WalletBalance{
		Total:         Money{Cents: total},
		Spent:         Money{Cents: expenses},
		Remaining:     Money{Cents: total - expenses},
		MonthlyBudget: monthlyIncome,
	}
}

// AggregateByCategory sums expense amounts per category label. Income
// transactions are ignored and untouched categories are simply absent.
func AggregateByCategory(transactions []Transaction) map[string]Money {
	out := make(map[string]Money)
	for _, tx := range transactions {
		if tx.Type != Expense {
			continue
		}
		sum := out[tx.Category]
		sum.Cents += tx.Amount.Cents
		out[tx.Category] = sum
	}
	return out
}

// Recent returns the first min(limit, len) transactions of the list. The
// ledger maintains newest-first order by construction, so no sorting
// happens here.
func Recent(transactions []Transaction, limit int) []Transaction {
	if limit < 0 {
		limit = 0
	}
	if limit > len(transactions) {
		limit = len(transactions)
	}
	out := make([]Transaction, limit)
	copy(out, transactions[:limit])
	return out
}
