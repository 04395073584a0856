// Package google mirrors recorded transactions into a Google
// spreadsheet. Each calendar month gets its own worksheet named in
// Indonesian ("Juni 2025"); rows carry date, time, amount, description,
// category, user, and the balance snapshot.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"budgetin/internal/core"
	ports "budgetin/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// worksheetHeader is row 1 of every monthly worksheet.
var worksheetHeader = []any{"Tanggal", "Waktu", "Jumlah", "Keterangan", "Kategori", "User", "Saldo"}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string

	// Worksheet titles known to exist, so each month is ensured once per
	// process.
	mu    sync.Mutex
	known map[string]bool
}

// Ensure interface conformance
var (
	_ ports.TransactionWriter = (*Client)(nil)
	_ ports.MonthReader       = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		known:         make(map[string]bool),
	}, nil
}

// newSheetsService initializes a Sheets service using service account
// credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendTransaction implements ports.TransactionWriter. The monthly
// worksheet is created with headers on first use.
func (c *Client) AppendTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	name := core.WorksheetName(tx.Timestamp.Year(), int(tx.Timestamp.Month()))
	if err := c.ensureWorksheet(ctx, name); err != nil {
		return "", fmt.Errorf("ensure worksheet %q: %w", name, err)
	}

	row := []any{
		core.FormatDateIndo(tx.Timestamp),
		tx.Timestamp.Format("15:04:05"),
		int64(tx.Amount),
		tx.Description,
		string(tx.Category),
		tx.UserID,
		int64(tx.BalanceAfter),
	}

	rng := fmt.Sprintf("'%s'!A:G", name)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng,
		&gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %q: %w", name, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Transaction appended to sheet",
		"worksheet", name,
		"range", ref,
		"user_id", tx.UserID)
	return ref, nil
}

// ListMonth implements ports.MonthReader. Rows that do not parse are
// skipped; the sheet is display data and humans edit it.
func (c *Client) ListMonth(ctx context.Context, year, month int) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	name := core.WorksheetName(year, month)
	rng := fmt.Sprintf("'%s'!A2:G", name)

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	var txs []core.Transaction
	for _, row := range resp.Values {
		tx, ok := parseRow(row, year, month)
		if !ok {
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// parseRow turns one sheet row back into a transaction. Row layout
// matches worksheetHeader.
func parseRow(row []any, year, month int) (core.Transaction, bool) {
	if len(row) < 7 {
		return core.Transaction{}, false
	}

	day, ok := dayFromDateCell(cellString(row[0]))
	if !ok {
		return core.Transaction{}, false
	}
	hour, minute, second := 0, 0, 0
	if t, err := time.Parse("15:04:05", cellString(row[1])); err == nil {
		hour, minute, second = t.Hour(), t.Minute(), t.Second()
	}
	amount, ok := cellInt64(row[2])
	if !ok || amount <= 0 {
		return core.Transaction{}, false
	}
	balance, ok := cellInt64(row[6])
	if !ok {
		return core.Transaction{}, false
	}

	ts := time.Date(year, time.Month(month), day, hour, minute, second, 0, core.JakartaNow().Location())
	tx := core.Transaction{
		UserID:       cellString(row[5]),
		Amount:       core.Money(amount),
		Description:  cellString(row[3]),
		Category:     core.Category(cellString(row[4])),
		Timestamp:    ts,
		BalanceAfter: core.Money(balance),
	}
	if tx.UserID == "" {
		return core.Transaction{}, false
	}
	if _, ok := core.ValidCategory(string(tx.Category)); !ok {
		tx.Category = core.CategoryOther
	}
	return tx, true
}

// dayFromDateCell extracts the day of month from a formatted date like
// "Senin, 2 Juni 2025".
func dayFromDateCell(s string) (int, bool) {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}

func cellString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// cellInt64 reads a numeric cell. USER_ENTERED values come back as
// strings, possibly with thousands separators.
func cellInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case string:
		cleaned := strings.NewReplacer(".", "", ",", "", " ", "", "Rp", "").Replace(strings.TrimSpace(n))
		parsed, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// ensureWorksheet adds the named worksheet with its header row unless it
// already exists.
func (c *Client) ensureWorksheet(ctx context.Context, name string) error {
	c.mu.Lock()
	if c.known[name] {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	spreadsheet, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	exists := false
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == name {
			exists = true
			break
		}
	}

	if !exists {
		_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
			Requests: []*gsheet.Request{{
				AddSheet: &gsheet.AddSheetRequest{
					Properties: &gsheet.SheetProperties{Title: name},
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("add sheet: %w", err)
		}

		headerRange := fmt.Sprintf("'%s'!A1:G1", name)
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, headerRange,
			&gsheet.ValueRange{Values: [][]any{worksheetHeader}}).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		slog.InfoContext(ctx, "Created monthly worksheet", "worksheet", name)
	}

	c.mu.Lock()
	c.known[name] = true
	c.mu.Unlock()
	return nil
}
