package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	ExportFileName  = "datos_filtrados.xlsx"
	ExportMimeType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ExportSheetName = "Datos"
)

// ExportService writes the visible table to an in-memory xlsx workbook.
type ExportService struct{}

// ToExcel returns a single-sheet workbook with a header row followed by
// rows. Data cells that read as plain numbers are written as numbers, the
// rest as text.
func (s *ExportService) ToExcel(columns []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRow(f, 1, columns, false); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := writeRow(f, i+2, row, true); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowNum int, values []string, numeric bool) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		if numeric {
			row[i] = cellValue(v)
		} else {
			row[i] = v
		}
	}
	if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

// cellValue returns v as a float64 when it is a plain decimal number such as
// "1500" or "-12.5". Values with leading zeros ("007"), thousands separators,
// currency symbols or exponents stay text so identifiers and formatted
// amounts keep their spelling.
func cellValue(v string) any {
	s := strings.TrimSpace(v)
	if s == "" || s != v {
		return v
	}
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || strings.ContainsAny(digits, "eE+-") {
		return v
	}
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return v
	}
	if digits[0] == '.' || digits[len(digits)-1] == '.' {
		return v
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return v
	}
	return n
}
