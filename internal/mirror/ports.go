package mirror

import (
	"context"

	"lifeos/internal/core"
)

// TransactionWriter is the outbound port for the ledger mirror. The mirror
// is append-only and eventually consistent; the local store remains the
// source of truth.
type TransactionWriter interface {
	// Append writes one ledger record to the mirror and returns an
	// adapter-specific row reference.
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
