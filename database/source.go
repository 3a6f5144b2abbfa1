// Package database reads the settlements spreadsheet. The spreadsheet is the
// panel's only durable store: Datos holds the records and Usuarios the
// credentials.
package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/proveedores/liquidaciones/config"
	"github.com/proveedores/liquidaciones/database/model"
	"github.com/proveedores/liquidaciones/util/common"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrSourceUnavailable wraps every failure to read the spreadsheet.
var ErrSourceUnavailable = errors.New("data source unavailable")

// Source returns both worksheets or an error; never one without the other.
type Source interface {
	Fetch(ctx context.Context) (*model.RecordTable, *model.UserTable, error)
}

// SheetsSource reads both worksheets with a single BatchGet call.
type SheetsSource struct {
	service *sheets.Service
	cfg     config.SourceConfig
}

// NewSheetsSource builds a read-only Sheets client from the configured
// service account. Inline JSON takes precedence over a file path.
func NewSheetsSource(ctx context.Context, cfg config.SourceConfig) (*SheetsSource, error) {
	if cfg.SpreadsheetKey == "" {
		return nil, fmt.Errorf("%w: spreadsheet key is empty", ErrSourceUnavailable)
	}
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithAuthCredentialsJSON(option.ServiceAccount, []byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, cfg.CredentialsFile))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create sheets client: %w", ErrSourceUnavailable, err)
	}
	return &SheetsSource{service: service, cfg: cfg}, nil
}

func (s *SheetsSource) Fetch(ctx context.Context) (*model.RecordTable, *model.UserTable, error) {
	resp, err := s.service.Spreadsheets.Values.BatchGet(s.cfg.SpreadsheetKey).
		Ranges(s.cfg.RecordsSheet, s.cfg.UsersSheet).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read worksheets: %w", ErrSourceUnavailable, err)
	}
	if len(resp.ValueRanges) != 2 {
		return nil, nil, fmt.Errorf("%w: expected 2 worksheets, got %d", ErrSourceUnavailable, len(resp.ValueRanges))
	}

	recordHeader, recordRows, err := splitValues(s.cfg.RecordsSheet, resp.ValueRanges[0].Values)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	userHeader, userRows, err := splitValues(s.cfg.UsersSheet, resp.ValueRanges[1].Values)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	return model.NewRecordTable(recordHeader, recordRows), model.NewUserTable(userHeader, userRows), nil
}

// splitValues turns a worksheet's cell grid into a header and data rows.
// The first row is the header; blank header cells drop their column, fully
// blank data rows are skipped, and a repeated header name is an error.
func splitValues(sheet string, values [][]any) ([]string, [][]string, error) {
	if len(values) == 0 {
		return nil, nil, nil
	}

	header := make([]string, 0, len(values[0]))
	keep := make([]int, 0, len(values[0]))
	seen := make(map[string]struct{}, len(values[0]))
	for i, cell := range values[0] {
		name := cellString(cell)
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, nil, common.NewErrorf("worksheet %q: duplicate header %q", sheet, name)
		}
		seen[name] = struct{}{}
		header = append(header, name)
		keep = append(keep, i)
	}

	rows := make([][]string, 0, len(values)-1)
	for _, raw := range values[1:] {
		cells := make([]string, len(keep))
		blank := true
		for j, idx := range keep {
			if idx < len(raw) {
				cells[j] = cellString(raw[idx])
			}
			if strings.TrimSpace(cells[j]) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, cells)
	}
	return header, rows, nil
}

// cellString coerces a Sheets API cell to a string; nil reads as "".
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
