package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"lifeos/internal/core"

	_ "modernc.org/sqlite"
)

// Fixed keys in app_state. The entire persisted surface is three records.
const (
	keyProfile      = "user_profile"
	keyTransactions = "transactions"
	keyOnboarded    = "onboarded"
)

// schemaVersion is stamped into every stored envelope so the shape of the
// persisted JSON can change without silently corrupting older data.
const schemaVersion = 1

var ErrNotFound = errors.New("not found")

// State is the durable application state as read at startup.
type State struct {
	Profile      *core.UserProfile
	Transactions []core.Transaction
	Onboarded    bool
}

// Store is a key-value state store backed by SQLite. Writes are
// write-through: callers persist the full record on every mutation.
type Store struct {
	db *sql.DB
}

type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

type profileRecord struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	MonthlyIncomeCents int64     `json:"monthly_income_cents"`
	CreatedAt          time.Time `json:"created_at"`
}

type transactionRecord struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping verifies the database is reachable, for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load reads the full persisted state. Absent or corrupt values decode to
// zero defaults and are logged, never surfaced as errors: a bad stored
// blob must not take the app down. Only real database failures propagate.
func (s *Store) Load(ctx context.Context) (State, error) {
	var state State

	var rec profileRecord
	switch err := s.getJSON(ctx, keyProfile, &rec); {
	case err == nil:
		state.Profile = &core.UserProfile{
			ID:            rec.ID,
			Name:          rec.Name,
			MonthlyIncome: core.Money{Cents: rec.MonthlyIncomeCents},
			CreatedAt:     rec.CreatedAt,
		}
	case errors.Is(err, ErrNotFound):
	default:
		return State{}, fmt.Errorf("load profile: %w", err)
	}

	var txRecs []transactionRecord
	switch err := s.getJSON(ctx, keyTransactions, &txRecs); {
	case err == nil:
		state.Transactions = make([]core.Transaction, len(txRecs))
		for i, r := range txRecs {
			state.Transactions[i] = core.Transaction{
				ID:          r.ID,
				Type:        core.TransactionType(r.Type),
				Amount:      core.Money{Cents: r.AmountCents},
				Category:    r.Category,
				Description: r.Description,
				Date:        r.Date,
			}
		}
	case errors.Is(err, ErrNotFound):
	default:
		return State{}, fmt.Errorf("load transactions: %w", err)
	}

	var onboarded bool
	switch err := s.getJSON(ctx, keyOnboarded, &onboarded); {
	case err == nil:
		state.Onboarded = onboarded
	case errors.Is(err, ErrNotFound):
	default:
		return State{}, fmt.Errorf("load onboarded flag: %w", err)
	}

	return state, nil
}

func (s *Store) SaveProfile(ctx context.Context, p core.UserProfile) error {
	rec := profileRecord{
		ID:                 p.ID,
		Name:               p.Name,
		MonthlyIncomeCents: p.MonthlyIncome.Cents,
		CreatedAt:          p.CreatedAt,
	}
	if err := s.setJSON(ctx, keyProfile, rec); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	slog.InfoContext(ctx, "Profile saved",
		"user_id", p.ID,
		"monthly_income_cents", p.MonthlyIncome.Cents)
	return nil
}

// SaveTransactions rewrites the full ledger. O(n) per write is an accepted
// trade-off for a small personal dataset.
func (s *Store) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	recs := make([]transactionRecord, len(txs))
	for i, tx := range txs {
		recs[i] = transactionRecord{
			ID:          tx.ID,
			Type:        string(tx.Type),
			AmountCents: tx.Amount.Cents,
			Category:    tx.Category,
			Description: tx.Description,
			Date:        tx.Date,
		}
	}
	if err := s.setJSON(ctx, keyTransactions, recs); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}

	slog.DebugContext(ctx, "Ledger persisted", "count", len(txs))
	return nil
}

func (s *Store) SetOnboarded(ctx context.Context, onboarded bool) error {
	if err := s.setJSON(ctx, keyOnboarded, onboarded); err != nil {
		return fmt.Errorf("set onboarded: %w", err)
	}
	return nil
}

// GetTransaction looks up a single ledger record by ID. Used by the mirror
// sync worker, which only receives IDs over the wire.
func (s *Store) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	state, err := s.Load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, tx := range state.Transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
}

// getJSON reads a key and decodes its envelope into out. A missing row
// yields ErrNotFound; a corrupt or unrecognized envelope is logged and
// reported as ErrNotFound so callers fall back to defaults.
func (s *Store) getJSON(ctx context.Context, key string, out any) error {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM app_state WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query %s: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		slog.WarnContext(ctx, "Corrupt stored value, falling back to default",
			"key", key, "error", err)
		return ErrNotFound
	}

	data, err := migrateEnvelope(env)
	if err != nil {
		slog.WarnContext(ctx, "Unsupported stored schema, falling back to default",
			"key", key, "schema_version", env.SchemaVersion, "error", err)
		return ErrNotFound
	}

	if err := json.Unmarshal(data, out); err != nil {
		slog.WarnContext(ctx, "Corrupt stored payload, falling back to default",
			"key", key, "error", err)
		return ErrNotFound
	}
	return nil
}

func (s *Store) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	raw, err := json.Marshal(envelope{SchemaVersion: schemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(raw))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// migrateEnvelope upgrades older stored shapes to the current schema.
// Version 1 is the only shape today; the switch is the migration hook.
func migrateEnvelope(env envelope) (json.RawMessage, error) {
	switch env.SchemaVersion {
	case schemaVersion:
		return env.Data, nil
	default:
		return nil, fmt.Errorf("unknown schema version %d", env.SchemaVersion)
	}
}
