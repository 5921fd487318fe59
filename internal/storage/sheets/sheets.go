package sheets

import (
	"context"
	"fmt"

	"coursebot/internal/models"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SpreadsheetLog appends progress rows to a Google Sheets spreadsheet
type SpreadsheetLog struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSpreadsheetLog creates a Sheets-backed progress log authenticated with a
// service-account JSON credential blob
func NewSpreadsheetLog(ctx context.Context, credentialsJSON []byte, spreadsheetID, sheetName string) (*SpreadsheetLog, error) {
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("google credentials are required for the sheets progress log")
	}
	return NewSpreadsheetLogWithOptions(ctx, spreadsheetID, sheetName,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
}

// NewSpreadsheetLogWithOptions creates a Sheets-backed progress log with explicit client options
func NewSpreadsheetLogWithOptions(ctx context.Context, spreadsheetID, sheetName string, opts ...option.ClientOption) (*SpreadsheetLog, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SpreadsheetLog{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendRow appends one (user_id, course, progress) row after the last row of the sheet
func (l *SpreadsheetLog) AppendRow(ctx context.Context, entry models.ProgressEntry) error {
	row := &sheets.ValueRange{
		Values: [][]interface{}{{entry.UserID, entry.Course, entry.Status}},
	}

	_, err := l.service.Spreadsheets.Values.
		Append(l.spreadsheetID, l.sheetName, row).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row to spreadsheet %s: %w", l.spreadsheetID, err)
	}
	return nil
}

// Close is a no-op; the Sheets client holds no resources of its own
func (l *SpreadsheetLog) Close() error {
	return nil
}
