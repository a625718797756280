package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"lifeos/internal/core"
	"lifeos/internal/store"
)

// StateStore is the durable persistence port. *store.Store satisfies it.
type StateStore interface {
	Load(ctx context.Context) (store.State, error)
	SaveProfile(ctx context.Context, p core.UserProfile) error
	SaveTransactions(ctx context.Context, txs []core.Transaction) error
	SetOnboarded(ctx context.Context, onboarded bool) error
}

// SyncPublisher notifies the mirror worker about new ledger records.
// *amqp.Client satisfies it; nil disables mirroring.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id string, version int64) error
}

// Service holds the in-memory ledger state and writes every mutation
// through to the store. State is explicit and owned here, not a package
// singleton, so tests can thread their own store and clock.
type Service struct {
	store     StateStore
	publisher SyncPublisher
	now       func() time.Time
	newID     func() string

	mu    sync.Mutex
	state store.State
}

type Option func(*Service)

// WithClock replaces the wall-clock source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the unique-id source, for deterministic tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func New(st StateStore, publisher SyncPublisher, opts ...Option) *Service {
	s := &Service{
		store:     st,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadState reads the persisted state into memory. Called once at startup;
// safe to call again to re-sync from disk.
func (s *Service) LoadState(ctx context.Context) (store.State, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return store.State{}, fmt.Errorf("load state: %w", err)
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	slog.InfoContext(ctx, "Ledger state loaded",
		"transactions", len(state.Transactions),
		"onboarded", state.Onboarded)
	return s.snapshot(), nil
}

// SaveUser completes onboarding: it creates the profile and flips the
// onboarded flag. The profile is immutable afterwards.
func (s *Service) SaveUser(ctx context.Context, input core.UserInput) (core.UserProfile, error) {
	profile := core.UserProfile{
		ID:            s.newID(),
		Name:          input.Name,
		MonthlyIncome: input.MonthlyIncome,
		CreatedAt:     s.now(),
	}
	if err := profile.Validate(); err != nil {
		return core.UserProfile{}, err
	}

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return core.UserProfile{}, fmt.Errorf("persist profile: %w", err)
	}
	if err := s.store.SetOnboarded(ctx, true); err != nil {
		return core.UserProfile{}, fmt.Errorf("persist onboarded flag: %w", err)
	}

	s.mu.Lock()
	s.state.Profile = &profile
	s.state.Onboarded = true
	s.mu.Unlock()

	slog.InfoContext(ctx, "Onboarding completed",
		"user_id", profile.ID,
		"monthly_income_cents", profile.MonthlyIncome.Cents)
	return profile, nil
}

// AddTransaction appends a record to the ledger. The new record is
// prepended, so the in-memory list stays newest-first by construction,
// and the full list is written through to the store before the in-memory
// state is committed. The mutex is released before the mirror-sync
// publish so a slow broker never stalls reads; a publish failure never
// fails the add.
func (s *Service) AddTransaction(ctx context.Context, input core.TransactionInput) (core.Transaction, error) {
	tx := core.Transaction{
		ID:          s.newID(),
		Type:        input.Type,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Date:        input.Date,
	}
	if tx.Date.IsZero() {
		tx.Date = s.now()
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	next := make([]core.Transaction, 0, len(s.state.Transactions)+1)
	next = append(next, tx)
	next = append(next, s.state.Transactions...)

	if err := s.store.SaveTransactions(ctx, next); err != nil {
		s.mu.Unlock()
		return core.Transaction{}, fmt.Errorf("persist transactions: %w", err)
	}
	s.state.Transactions = next
	s.mu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionSync(ctx, tx.ID, 1); err != nil {
			slog.ErrorContext(ctx, "Failed to publish mirror sync message",
				"transaction_id", tx.ID, "error", err)
		}
	}

	slog.InfoContext(ctx, "Transaction added",
		"transaction_id", tx.ID,
		"transaction_type", string(tx.Type),
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)
	return tx, nil
}

// WalletBalance recomputes the monthly snapshot from the current ledger.
// Never cached: every call derives fresh values.
func (s *Service) WalletBalance() core.WalletBalance {
	s.mu.Lock()
	defer s.mu.Unlock()

	var monthlyIncome core.Money
	if s.state.Profile != nil {
		monthlyIncome = s.state.Profile.MonthlyIncome
	}
	return core.ComputeBalance(s.state.Transactions, monthlyIncome, s.now())
}

// RecentTransactions returns the newest limit records.
func (s *Service) RecentTransactions(limit int) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Recent(s.state.Transactions, limit)
}

// SpendingByCategory sums expenses per category over the full ledger.
func (s *Service) SpendingByCategory() map[string]core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.AggregateByCategory(s.state.Transactions)
}

// Profile returns the current user profile, or nil before onboarding.
func (s *Service) Profile() *core.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Profile == nil {
		return nil
	}
	p := *s.state.Profile
	return &p
}

func (s *Service) Onboarded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Onboarded
}

func (s *Service) snapshot() store.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := store.State{Onboarded: s.state.Onboarded}
	if s.state.Profile != nil {
		p := *s.state.Profile
		snap.Profile = &p
	}
	snap.Transactions = make([]core.Transaction, len(s.state.Transactions))
	copy(snap.Transactions, s.state.Transactions)
	return snap
}

// Snapshot returns a copy of the in-memory state for read handlers.
func (s *Service) Snapshot() store.State {
	return s.snapshot()
}
