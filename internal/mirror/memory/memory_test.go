package memory

import (
	"context"
	"testing"
	"time"

	"lifeos/internal/core"
)

func TestStore_Append(t *testing.T) {
	s := New()
	ctx := context.Background()

	tx := core.Transaction{
		ID:       "t-1",
		Type:     core.Expense,
		Amount:   core.Money{Cents: 28000},
		Category: "food",
		Date:     time.Now(),
	}

	ref, err := s.Append(ctx, tx)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %s, want mem:1", ref)
	}

	items := s.Items()
	if len(items) != 1 || items[0].ID != "t-1" {
		t.Errorf("Items() = %+v, want the appended transaction", items)
	}
}

func TestStore_AppendInvalid(t *testing.T) {
	s := New()

	_, err := s.Append(context.Background(), core.Transaction{
		Type:   core.Expense,
		Amount: core.Money{Cents: -1},
	})
	if err == nil {
		t.Error("expected validation error for negative amount")
	}
	if len(s.Items()) != 0 {
		t.Error("invalid transaction must not be stored")
	}
}
