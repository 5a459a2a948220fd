// Package google exports ledger snapshots to a Google Sheets spreadsheet.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"cebim/internal/core"
	ports "cebim/internal/export"
	"cebim/internal/log"
)

// Config holds the spreadsheet target and OAuth material.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	OAuthClientJSON []byte
	OAuthTokenJSON  []byte
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

var _ ports.SnapshotWriter = (*Client)(nil)

// NewClient builds a Sheets client from a stored OAuth token.
func NewClient(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if cfg.SheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	oauthCfg, err := goauth.ConfigFromJSON(cfg.OAuthClientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth client config: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(cfg.OAuthTokenJSON, &token); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(oauthCfg.Client(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger.WithComponent(log.ComponentExport),
	}, nil
}

// WriteSnapshot clears the sheet and rewrites it from the snapshot. The
// export is a full replacement, no attempt is made to diff against the
// previous contents.
func (c *Client) WriteSnapshot(ctx context.Context, snap core.Snapshot) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:E", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.sheetName, err)
	}

	rows := snapshotRows(snap)
	writeRange := fmt.Sprintf("%s!A1", c.sheetName)
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", c.sheetName, err)
	}

	c.logger.InfoContext(ctx, "snapshot exported",
		log.FieldOperation, log.OpExport,
		"rows", len(rows),
		"transactions", len(snap.Transactions))
	return nil
}

// snapshotRows renders a snapshot as sheet rows: one row per transaction
// followed by a balance summary and the goal, if set.
func snapshotRows(snap core.Snapshot) [][]any {
	rows := [][]any{
		{"Date", "Category", "Description", "Type", "Amount"},
	}
	for _, tx := range core.SortByDateDesc(snap.Transactions) {
		rows = append(rows, []any{
			tx.Date.Format(time.RFC3339),
			tx.CategoryName,
			tx.Description,
			string(tx.Type),
			tx.Amount.String(),
		})
	}

	rows = append(rows, []any{})
	rows = append(rows, []any{"Total balance", "", "", "", core.TotalBalance(snap.Transactions).String()})
	if snap.Goal != nil {
		rows = append(rows, []any{"Monthly goal", "", "", "", snap.Goal.String()})
	}
	for _, rem := range snap.Reminders {
		rows = append(rows, []any{
			rem.DueDate.Format("2006-01-02"),
			"reminder",
			rem.Title,
			string(rem.Frequency),
			rem.Amount.String(),
		})
	}
	return rows
}
