// Package model defines the rows and tables read from the settlements spreadsheet.
package model

import "slices"

// Column names of the Datos worksheet that the panel interprets.
const (
	ColumnOwner  = "Proveedor"
	ColumnStatus = "Estado"
)

// Record is one row of the Datos worksheet. Owner and status are kept as
// typed fields; every other column lives in Fields. A missing cell is "".
type Record struct {
	Proveedor string
	Estado    string
	Fields    map[string]string
}

// Get returns the raw value of column, "" when the row has no such cell.
func (r Record) Get(column string) string {
	switch column {
	case ColumnOwner:
		return r.Proveedor
	case ColumnStatus:
		return r.Estado
	}
	return r.Fields[column]
}

// NewRecord builds a record from a header and the matching cells. Cells
// beyond the header are dropped and missing trailing cells read as "".
func NewRecord(header []string, cells []string) Record {
	r := Record{Fields: make(map[string]string, len(header))}
	for i, column := range header {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		switch column {
		case ColumnOwner:
			r.Proveedor = value
		case ColumnStatus:
			r.Estado = value
		default:
			r.Fields[column] = value
		}
	}
	return r
}

// RecordTable is an ordered set of records sharing one header. Tables are
// treated as immutable once built; filters return new tables.
type RecordTable struct {
	Columns []string
	Rows    []Record
}

func EmptyRecords() *RecordTable {
	return &RecordTable{}
}

func (t *RecordTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *RecordTable) Empty() bool {
	return t.Len() == 0
}

func (t *RecordTable) HasColumn(column string) bool {
	return t != nil && slices.Contains(t.Columns, column)
}

// WithRows returns a table with the same header and the given rows.
func (t *RecordTable) WithRows(rows []Record) *RecordTable {
	if t == nil {
		return &RecordTable{Rows: rows}
	}
	return &RecordTable{Columns: t.Columns, Rows: rows}
}

// NewRecordTable maps raw rows onto records by header name.
func NewRecordTable(header []string, rows [][]string) *RecordTable {
	t := &RecordTable{Columns: header, Rows: make([]Record, 0, len(rows))}
	for _, cells := range rows {
		t.Rows = append(t.Rows, NewRecord(header, cells))
	}
	return t
}
