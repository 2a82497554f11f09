package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
	ports "github.com/fahad9993/expense-tracker-gsheet/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Journal layout: header on row 3, data from row 4.
// Columns: A date, B account, C amount (may hold a formula), D notes.
const journalFirstDataRow = 4

type Client struct {
	svc             *gsheet.Service
	spreadsheetID   string
	journalSheet    string
	accountsSheet   string
	netIncomeSheet  string
	reportsSheet    string
	quantitiesSheet string
}

// Ensure interface conformance
var (
	_ ports.JournalStore     = (*Client)(nil)
	_ ports.JournalLister    = (*Client)(nil)
	_ ports.SuggestionReader = (*Client)(nil)
	_ ports.EntryFilter      = (*Client)(nil)
	_ ports.QuantityStore    = (*Client)(nil)
	_ ports.DashboardReader  = (*Client)(nil)
	_ ports.DashboardWriter  = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional sheet names: JOURNAL_SHEET_NAME (default "Journal"),
// ACCOUNTS_SHEET_NAME ("Accounts"), NET_INCOME_SHEET_NAME ("Net Income"),
// REPORTS_SHEET_NAME ("Reports of Accounts"), QUANTITIES_SHEET_NAME ("Home").
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
		svc:             svc,
		spreadsheetID:   spreadsheetID,
		journalSheet:    envOr("JOURNAL_SHEET_NAME", "Journal"),
		accountsSheet:   envOr("ACCOUNTS_SHEET_NAME", "Accounts"),
		netIncomeSheet:  envOr("NET_INCOME_SHEET_NAME", "Net Income"),
		reportsSheet:    envOr("REPORTS_SHEET_NAME", "Reports of Accounts"),
		quantitiesSheet: envOr("QUANTITIES_SHEET_NAME", "Home"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

// readJournal returns the journal data rows with formula text preserved in the
// amount column. The FORMULA render option is what lets a later fetch see
// "=40+15" instead of "55".
func (c *Client) readJournal(ctx context.Context) ([][]any, error) {
	rng := fmt.Sprintf("%s!A%d:D", c.journalSheet, journalFirstDataRow)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("FORMULA").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// findSlot scans the journal for a row matching the normalized slot and
// returns its sheet row number, or 0 when absent.
func (c *Client) findSlot(ctx context.Context, dateText, account string) (int, core.StoredRecord, error) {
	target, err := core.Slot{DateText: dateText, Account: account}.Normalized()
	if err != nil {
		return 0, core.StoredRecord{}, err
	}
	rows, err := c.readJournal(ctx)
	if err != nil {
		return 0, core.StoredRecord{}, err
	}
	for i, row := range rows {
		cols := toStrings(row)
		if len(cols) < 2 {
			continue
		}
		stored, err := core.Slot{DateText: cols[0], Account: cols[1]}.Normalized()
		if err != nil {
			continue
		}
		if stored.Equal(target) {
			return journalFirstDataRow + i, core.StoredRecord{
				Amount: safeGet(cols, 2),
				Notes:  safeGet(cols, 3),
			}, nil
		}
	}
	return 0, core.StoredRecord{}, nil
}

// Upsert writes amount and notes into the slot's row, appending a new row when
// the slot does not exist yet. Returns true when a row was created.
func (c *Client) Upsert(ctx context.Context, dateText, account, amount, note string) (bool, error) {
	if c.svc == nil {
		return false, errors.New("sheets service not initialized")
	}
	rowNum, _, err := c.findSlot(ctx, dateText, account)
	if err != nil {
		return false, err
	}

	if rowNum > 0 {
		rng := fmt.Sprintf("%s!C%d:D%d", c.journalSheet, rowNum, rowNum)
		vr := &gsheet.ValueRange{Values: [][]any{{amount, note}}}
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
			ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return false, fmt.Errorf("update row %d in sheet %s: %w", rowNum, c.journalSheet, err)
		}
		return false, nil
	}

	canonical, err := core.CanonicalDate(dateText)
	if err != nil {
		return false, err
	}
	rng := fmt.Sprintf("%s!A%d:D", c.journalSheet, journalFirstDataRow)
	vr := &gsheet.ValueRange{Values: [][]any{{canonical, strings.TrimSpace(account), amount, note}}}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("append to sheet %s: %w", c.journalSheet, err)
	}
	return true, nil
}

// Fetch returns the stored amount and notes for the slot, with formula text
// intact so callers can decode the per-item breakdown.
func (c *Client) Fetch(ctx context.Context, dateText, account string) (core.StoredRecord, error) {
	if c.svc == nil {
		return core.StoredRecord{}, errors.New("sheets service not initialized")
	}
	rowNum, rec, err := c.findSlot(ctx, dateText, account)
	if err != nil {
		return core.StoredRecord{}, err
	}
	if rowNum == 0 {
		return core.StoredRecord{}, core.ErrNotFound
	}
	return rec, nil
}

// Entries implements sheets.JournalLister.
func (c *Client) Entries(ctx context.Context) ([]core.JournalRow, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rows, err := c.readJournal(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.JournalRow
	for _, row := range rows {
		cols := toStrings(row)
		if len(cols) < 2 || cols[0] == "" || cols[1] == "" {
			continue
		}
		out = append(out, core.JournalRow{
			DateText: cols[0],
			Account:  cols[1],
			Amount:   safeGet(cols, 2),
			Notes:    safeGet(cols, 3),
		})
	}
	return out, nil
}

// Suggestions reads the Accounts sheet: account names in column A, food item
// names in column C, other item names in column D, data from row 2.
func (c *Client) Suggestions(ctx context.Context) (core.Suggestions, error) {
	if c.svc == nil {
		return core.Suggestions{}, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A2:D", c.accountsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return core.Suggestions{}, fmt.Errorf("read %s: %w", rng, err)
	}
	var out core.Suggestions
	for _, row := range resp.Values {
		cols := toStrings(row)
		if v := safeGet(cols, 0); v != "" {
			out.Accounts = append(out.Accounts, v)
		}
		if v := safeGet(cols, 2); v != "" {
			out.FoodNames = append(out.FoodNames, v)
		}
		if v := safeGet(cols, 3); v != "" {
			out.OtherItems = append(out.OtherItems, v)
		}
	}
	return out, nil
}

// Filter returns journal rows for the given month and account. Amounts come
// back computed (not as formula text) and dates are rendered DD-MM-YYYY.
func (c *Client) Filter(ctx context.Context, month int, account string) ([]core.FilterRow, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	if month < 0 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}
	rng := fmt.Sprintf("%s!A%d:D", c.journalSheet, journalFirstDataRow)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	var out []core.FilterRow
	for _, row := range resp.Values {
		cols := toStrings(row)
		if len(cols) < 3 {
			continue
		}
		if !strings.EqualFold(cols[1], strings.TrimSpace(account)) {
			continue
		}
		canonical, err := core.CanonicalDate(cols[0])
		if err != nil {
			continue
		}
		d, err := core.ParseCanonicalDate(canonical)
		if err != nil {
			continue
		}
		if month != 0 && int(d.Month()) != month {
			continue
		}
		amt, err := core.ParseAmount(cols[2])
		if err != nil {
			continue
		}
		f, _ := amt.Float64()
		out = append(out, core.FilterRow{
			Date:   d.Format("02-01-2006"),
			Amount: f,
			Notes:  safeGet(cols, 3),
		})
	}
	return out, nil
}

// FetchQuantities reads the cash-in-hand table: bank note denominations in
// column A, counts in column B, data from row 2.
func (c *Client) FetchQuantities(ctx context.Context) ([]int, []int, error) {
	if c.svc == nil {
		return nil, nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A2:B", c.quantitiesSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", rng, err)
	}
	var notes, counts []int
	for _, row := range resp.Values {
		cols := toStrings(row)
		n, err := strconv.Atoi(safeGet(cols, 0))
		if err != nil {
			continue
		}
		q, err := strconv.Atoi(safeGet(cols, 1))
		if err != nil {
			q = 0
		}
		notes = append(notes, n)
		counts = append(counts, q)
	}
	return notes, counts, nil
}

// UpdateQuantities overwrites the counts column starting at row 2.
func (c *Client) UpdateQuantities(ctx context.Context, quantities []int) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	values := make([][]any, len(quantities))
	for i, q := range quantities {
		values[i] = []any{q}
	}
	rng := fmt.Sprintf("%s!B2:B%d", c.quantitiesSheet, 1+len(quantities))
	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// ReadDashboard reads the monthly amounts from the Net Income sheet (column P,
// rows 2 through 5), the variance cell, and the pie chart data from the
// reports sheet (rows 17 through 29: labels in column B, yearly totals in
// column O, current-month totals in the current month's column).
func (c *Client) ReadDashboard(ctx context.Context) (core.Dashboard, error) {
	if c.svc == nil {
		return core.Dashboard{}, errors.New("sheets service not initialized")
	}

	var d core.Dashboard

	rng := fmt.Sprintf("%s!P2:P5", c.netIncomeSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return core.Dashboard{}, fmt.Errorf("read %s: %w", rng, err)
	}
	for _, row := range resp.Values {
		if len(row) == 0 {
			d.Amounts = append(d.Amounts, 0)
			continue
		}
		d.Amounts = append(d.Amounts, toFloat(row[0]))
	}

	rng = fmt.Sprintf("%s!J18", c.netIncomeSheet)
	resp, err = c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return core.Dashboard{}, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		d.Variance = toFloat(resp.Values[0][0])
	}

	pie, err := c.readPie(ctx)
	if err != nil {
		return core.Dashboard{}, err
	}
	d.Pie = pie
	return d, nil
}

func (c *Client) readPie(ctx context.Context) ([]core.PieSlice, error) {
	rng := fmt.Sprintf("%s!A17:O29", c.reportsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	// Columns within the A17:O29 window: B is index 1, O is index 14, and the
	// current month's column is index month+1 (C for January through N for
	// December).
	monthCol := int(nowMonth()) + 1
	var out []core.PieSlice
	for _, row := range resp.Values {
		if len(row) < 2 {
			continue
		}
		label := strings.TrimSpace(fmt.Sprint(row[1]))
		if label == "" {
			continue
		}
		slice := core.PieSlice{Label: label}
		if len(row) > 14 {
			slice.Value = toFloat(row[14])
		}
		if len(row) > monthCol {
			slice.CurrentValue = toFloat(row[monthCol])
		}
		out = append(out, slice)
	}
	return out, nil
}

// UpdateAmounts writes the editable balance cells back to the Net Income
// sheet, starting at P2.
func (c *Client) UpdateAmounts(ctx context.Context, amounts []float64) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	values := make([][]any, len(amounts))
	for i, a := range amounts {
		values[i] = []any{a}
	}
	rng := fmt.Sprintf("%s!P2:P%d", c.netIncomeSheet, 1+len(amounts))
	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func nowMonth() time.Month {
	return time.Now().Month()
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
