package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"lifeos/internal/core"
	"lifeos/internal/store"
)

// fakeStore keeps state in memory and records what was written through.
type fakeStore struct {
	state    store.State
	saveErr  error
	saves    int
	profiles int
}

func (f *fakeStore) Load(context.Context) (store.State, error) {
	return f.state, nil
}

func (f *fakeStore) SaveProfile(_ context.Context, p core.UserProfile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.profiles++
	f.state.Profile = &p
	return nil
}

func (f *fakeStore) SaveTransactions(_ context.Context, txs []core.Transaction) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.state.Transactions = txs
	return nil
}

func (f *fakeStore) SetOnboarded(_ context.Context, onboarded bool) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.state.Onboarded = onboarded
	return nil
}

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) PublishTransactionSync(_ context.Context, id string, _ int64) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, id)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestService_SaveUser(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	fs := &fakeStore{}
	svc := New(fs, nil, WithClock(fixedClock(now)), WithIDGenerator(sequentialIDs()))

	profile, err := svc.SaveUser(context.Background(), core.UserInput{
		Name:          "Asha",
		MonthlyIncome: core.Money{Cents: 3000000},
	})
	if err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}
	if profile.ID != "id-1" {
		t.Errorf("ID = %s, want id-1", profile.ID)
	}
	if !profile.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", profile.CreatedAt, now)
	}
	if !fs.state.Onboarded {
		t.Error("onboarded flag not persisted")
	}
	if fs.state.Profile == nil || fs.state.Profile.Name != "Asha" {
		t.Errorf("persisted profile = %+v", fs.state.Profile)
	}
	if !svc.Onboarded() {
		t.Error("Onboarded() = false after SaveUser")
	}
}

func TestService_SaveUser_Invalid(t *testing.T) {
	svc := New(&fakeStore{}, nil)

	_, err := svc.SaveUser(context.Background(), core.UserInput{Name: "  "})
	if !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("SaveUser() error = %v, want ErrEmptyName", err)
	}
}

func TestService_AddTransaction(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	fs := &fakeStore{}
	pub := &fakePublisher{}
	svc := New(fs, pub, WithClock(fixedClock(now)), WithIDGenerator(sequentialIDs()))

	first, err := svc.AddTransaction(context.Background(), core.TransactionInput{
		Type:     core.Expense,
		Amount:   core.Money{Cents: 28000},
		Category: "food",
	})
	if err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}
	if first.ID == "" {
		t.Error("generated ID must not be empty")
	}
	if !first.Date.Equal(now) {
		t.Errorf("Date = %v, want clock default %v", first.Date, now)
	}

	second, err := svc.AddTransaction(context.Background(), core.TransactionInput{
		Type:   core.Income,
		Amount: core.Money{Cents: 500000},
	})
	if err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}

	// Newest-first by construction: second add sits at the head.
	recent := svc.RecentTransactions(10)
	if len(recent) != 2 {
		t.Fatalf("got %d transactions, want 2", len(recent))
	}
	if recent[0].ID != second.ID || recent[1].ID != first.ID {
		t.Errorf("order = [%s %s], want [%s %s]",
			recent[0].ID, recent[1].ID, second.ID, first.ID)
	}

	// Write-through: the store saw every mutation with the full list.
	if fs.saves != 2 {
		t.Errorf("store saves = %d, want 2", fs.saves)
	}
	if len(fs.state.Transactions) != 2 {
		t.Errorf("persisted %d transactions, want 2", len(fs.state.Transactions))
	}

	// Both adds published mirror sync messages.
	if len(pub.published) != 2 {
		t.Errorf("published %d sync messages, want 2", len(pub.published))
	}
}

func TestService_AddTransaction_ValidationRejected(t *testing.T) {
	fs := &fakeStore{}
	svc := New(fs, nil)

	tests := []struct {
		name  string
		input core.TransactionInput
		want  error
	}{
		{
			name:  "negative amount",
			input: core.TransactionInput{Type: core.Expense, Amount: core.Money{Cents: -1}, Category: "food"},
			want:  core.ErrNegativeAmount,
		},
		{
			name:  "bad type",
			input: core.TransactionInput{Type: "transfer", Amount: core.Money{Cents: 100}},
			want:  core.ErrInvalidType,
		},
		{
			name:  "expense without category",
			input: core.TransactionInput{Type: core.Expense, Amount: core.Money{Cents: 100}},
			want:  core.ErrEmptyCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddTransaction(context.Background(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("AddTransaction() error = %v, want %v", err, tt.want)
			}
		})
	}
	if fs.saves != 0 {
		t.Errorf("store saves = %d, invalid input must not persist", fs.saves)
	}
}

func TestService_AddTransaction_StoreFailure(t *testing.T) {
	fs := &fakeStore{saveErr: errors.New("disk full")}
	svc := New(fs, nil)

	_, err := svc.AddTransaction(context.Background(), core.TransactionInput{
		Type: core.Income, Amount: core.Money{Cents: 100},
	})
	if err == nil {
		t.Fatal("expected error when store fails")
	}
	// Failed write must not leak into memory.
	if got := svc.RecentTransactions(10); len(got) != 0 {
		t.Errorf("in-memory ledger has %d entries after failed save, want 0", len(got))
	}
}

func TestService_AddTransaction_PublishFailureIsNonFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := New(&fakeStore{}, pub)

	_, err := svc.AddTransaction(context.Background(), core.TransactionInput{
		Type: core.Income, Amount: core.Money{Cents: 100},
	})
	if err != nil {
		t.Fatalf("AddTransaction() error = %v, publish failure must not fail the add", err)
	}
	if got := svc.RecentTransactions(10); len(got) != 1 {
		t.Errorf("ledger has %d entries, want 1", len(got))
	}
}

func TestService_EndToEndScenario(t *testing.T) {
	// Spec'd scenario: empty ledger, monthly income 30000; add expense 280
	// "food" today; add income 5000 today; check the wallet snapshot.
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	fs := &fakeStore{}
	svc := New(fs, nil, WithClock(fixedClock(now)), WithIDGenerator(sequentialIDs()))

	if _, err := svc.LoadState(context.Background()); err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if _, err := svc.SaveUser(context.Background(), core.UserInput{
		Name: "Asha", MonthlyIncome: core.Money{Cents: 30000 * 100},
	}); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}
	if _, err := svc.AddTransaction(context.Background(), core.TransactionInput{
		Type: core.Expense, Amount: core.Money{Cents: 280 * 100}, Category: "food",
	}); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if _, err := svc.AddTransaction(context.Background(), core.TransactionInput{
		Type: core.Income, Amount: core.Money{Cents: 5000 * 100},
	}); err != nil {
		t.Fatalf("add income: %v", err)
	}

	balance := svc.WalletBalance()
	if balance.Total.Cents != 35000*100 {
		t.Errorf("Total = %d, want %d", balance.Total.Cents, 35000*100)
	}
	if balance.Spent.Cents != 280*100 {
		t.Errorf("Spent = %d, want %d", balance.Spent.Cents, 280*100)
	}
	if balance.Remaining.Cents != 34720*100 {
		t.Errorf("Remaining = %d, want %d", balance.Remaining.Cents, 34720*100)
	}
	if balance.MonthlyBudget.Cents != 30000*100 {
		t.Errorf("MonthlyBudget = %d, want %d", balance.MonthlyBudget.Cents, 30000*100)
	}

	spending := svc.SpendingByCategory()
	if spending["food"].Cents != 280*100 {
		t.Errorf("food spending = %d, want %d", spending["food"].Cents, 280*100)
	}
	if _, ok := spending[""]; ok {
		t.Error("income must not appear in category aggregation")
	}
}

func TestService_WalletBalance_NoProfile(t *testing.T) {
	svc := New(&fakeStore{}, nil)

	balance := svc.WalletBalance()
	if balance.Total.Cents != 0 || balance.MonthlyBudget.Cents != 0 {
		t.Errorf("balance without profile = %+v, want zeros", balance)
	}
}

func TestService_LoadState_ReturnsCopy(t *testing.T) {
	fs := &fakeStore{state: store.State{
		Transactions: []core.Transaction{
			{ID: "t-1", Type: core.Income, Amount: core.Money{Cents: 100}, Date: time.Now()},
		},
		Onboarded: true,
	}}
	svc := New(fs, nil)

	snap, err := svc.LoadState(context.Background())
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	snap.Transactions[0].ID = "mutated"

	if svc.RecentTransactions(1)[0].ID != "t-1" {
		t.Error("mutating the snapshot leaked into service state")
	}
}

// blockingPublisher parks inside the publish call until released.
type blockingPublisher struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingPublisher) PublishTransactionSync(context.Context, string, int64) error {
	close(p.entered)
	<-p.release
	return nil
}

func TestService_AddTransaction_SlowPublishDoesNotBlockReads(t *testing.T) {
	pub := &blockingPublisher{entered: make(chan struct{}), release: make(chan struct{})}
	svc := New(&fakeStore{}, pub)

	addDone := make(chan error, 1)
	go func() {
		_, err := svc.AddTransaction(context.Background(), core.TransactionInput{
			Type:   core.Income,
			Amount: core.Money{Cents: 1000},
		})
		addDone <- err
	}()

	<-pub.entered

	// The record is committed before the publish, so reads must see it
	// immediately even while the broker call is still in flight.
	balanceDone := make(chan core.WalletBalance, 1)
	go func() { balanceDone <- svc.WalletBalance() }()

	select {
	case balance := <-balanceDone:
		if balance.Total.Cents != 1000 {
			t.Errorf("Total = %d, want 1000", balance.Total.Cents)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("WalletBalance blocked behind the in-flight mirror-sync publish")
	}

	close(pub.release)
	if err := <-addDone; err != nil {
		t.Errorf("AddTransaction() error = %v", err)
	}
}
