// Package backend selects the mirror destination for the sync worker.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"lifeos/internal/mirror"
	"lifeos/internal/mirror/memory"
	"lifeos/internal/mirror/sheets"
)

type Type string

const (
	MemoryBackend Type = "memory"
	SheetsBackend Type = "sheets"
)

func (t Type) IsValid() bool {
	return t == MemoryBackend || t == SheetsBackend
}

type Config struct {
	Type            Type
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
}

// New builds the mirror writer for the configured backend.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (mirror.TransactionWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid mirror backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SheetsBackend:
		cli, err := sheets.NewClient(ctx, sheets.Config{
			SpreadsheetID:   cfg.SpreadsheetID,
			SheetName:       cfg.SheetName,
			CredentialsJSON: cfg.CredentialsJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize sheets mirror: %w", err)
		}
		logger.Info("Initialized sheets mirror backend",
			"spreadsheet_id", cfg.SpreadsheetID, "sheet_name", cfg.SheetName)
		return cli, nil
	default:
		logger.Info("Initialized memory mirror backend")
		return memory.New(), nil
	}
}
