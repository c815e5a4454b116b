// Package google adapts the partition capability onto the Google Sheets
// API. Each partition is one worksheet inside a single spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"banchee/internal/core"
	"banchee/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Store struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ sheets.Store = (*Store)(nil)

// NewFromEnv creates a store using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Store, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Store{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials.
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
	return service, nil
}

func (s *Store) Open(ctx context.Context, title string) (sheets.Partition, error) {
	if s.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list worksheets: %w: %v", core.ErrBackendUnavailable, err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return &partition{store: s, title: title}, nil
		}
	}
	return nil, fmt.Errorf("open %q: %w", title, core.ErrPartitionNotFound)
}

func (s *Store) Create(ctx context.Context, title string, rows, cols int) (sheets.Partition, error) {
	if s.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{
					Title: title,
					GridProperties: &gsheet.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("create worksheet %q: %w: %v", title, core.ErrBackendUnavailable, err)
	}
	slog.InfoContext(ctx, "Created worksheet", "title", title, "rows", rows, "cols", cols)
	return &partition{store: s, title: title}, nil
}

type partition struct {
	store *Store
	title string
}

func (p *partition) Title() string {
	return p.title
}

func (p *partition) ReadAll(ctx context.Context) ([][]string, error) {
	// UNFORMATTED_VALUE: amounts come back as raw numbers instead of
	// display strings like "1,234.50", so coercion never sees grouping.
	resp, err := p.store.svc.Spreadsheets.Values.Get(p.store.spreadsheetID, quoteTitle(p.title)).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w: %v", p.title, core.ErrBackendUnavailable, err)
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		out[i] = toStrings(row)
	}
	return out, nil
}

func (p *partition) WriteCell(ctx context.Context, row, col int, value string) error {
	rng := fmt.Sprintf("%s!%s%d", quoteTitle(p.title), columnName(col), row)
	vr := &gsheet.ValueRange{Values: [][]any{{value}}}
	_, err := p.store.svc.Spreadsheets.Values.Update(p.store.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w: %v", rng, core.ErrBackendUnavailable, err)
	}
	return nil
}

func (p *partition) WriteBlock(ctx context.Context, row, col int, values [][]string) error {
	if len(values) == 0 {
		return nil
	}
	width := 0
	for _, vrow := range values {
		if len(vrow) > width {
			width = len(vrow)
		}
	}
	rng := fmt.Sprintf("%s!%s%d:%s%d",
		quoteTitle(p.title),
		columnName(col), row,
		columnName(col+width-1), row+len(values)-1)
	vals := make([][]any, len(values))
	for i, vrow := range values {
		vals[i] = make([]any, len(vrow))
		for j, v := range vrow {
			vals[i][j] = v
		}
	}
	vr := &gsheet.ValueRange{Values: vals}
	_, err := p.store.svc.Spreadsheets.Values.Update(p.store.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w: %v", rng, core.ErrBackendUnavailable, err)
	}
	return nil
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fmt.Sprint(v)
	}
	return out
}
