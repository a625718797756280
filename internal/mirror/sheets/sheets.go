// Package sheets mirrors the ledger into a Google Spreadsheet, one row per
// transaction.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"lifeos/internal/core"
	"lifeos/internal/mirror"
)

type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ mirror.TransactionWriter = (*Client)(nil)

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if cfg.SheetName == "" {
		return nil, errors.New("missing sheet name")
	}
	if cfg.CredentialsJSON == "" {
		return nil, errors.New("missing Google credentials JSON")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON([]byte(cfg.CredentialsJSON)),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

// Append writes one transaction row: date, type, amount, category,
// description, ledger ID. The ledger ID column lets a later reconciliation
// pass detect duplicates after a requeued message.
func (c *Client) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row := []any{
		tx.Date.Format(time.RFC3339),
		string(tx.Type),
		tx.Amount.Rupees(),
		tx.Category,
		tx.Description,
		tx.ID,
	}
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	rng := fmt.Sprintf("%s!A:F", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	ref := c.sheetName
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}
