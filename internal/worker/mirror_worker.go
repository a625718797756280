package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lifeos/internal/amqp"
	"lifeos/internal/core"
	"lifeos/internal/mirror"
	"lifeos/internal/store"
)

// TransactionReader looks up ledger records by ID. *store.Store satisfies it.
type TransactionReader interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
}

// MirrorWorker consumes sync messages and appends the referenced
// transactions to the mirror.
type MirrorWorker struct {
	store  TransactionReader
	mirror mirror.TransactionWriter
}

func NewMirrorWorker(st TransactionReader, m mirror.TransactionWriter) *MirrorWorker {
	return &MirrorWorker{
		store:  st,
		mirror: m,
	}
}

// HandleSyncMessage processes one sync message. A transaction missing from
// the store is dropped rather than requeued: the message outlived its
// record and redelivery cannot fix that. Mirror failures return an error
// so the delivery is requeued.
func (w *MirrorWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing mirror sync message",
		"transaction_id", msg.ID,
		"version", msg.Version)

	tx, err := w.store.GetTransaction(ctx, msg.ID)
	if errors.Is(err, store.ErrNotFound) {
		slog.WarnContext(ctx, "Transaction not found in store, dropping message",
			"transaction_id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from store: %w", err)
	}

	ref, err := w.mirror.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}

	slog.InfoContext(ctx, "Transaction mirrored",
		"transaction_id", tx.ID,
		"mirror_ref", ref)
	return nil
}
