package service

import (
	"slices"
	"sort"
	"strings"

	"github.com/proveedores/liquidaciones/database/model"
	"github.com/proveedores/liquidaciones/web/session"
)

// ExcludedColumns are internal columns of the Datos worksheet never shown to
// suppliers nor exported.
var ExcludedColumns = []string{
	"Proveedor",
	"Nombre Acreedor",
	"FechaLib SP",
	"Contrato marco",
	"Pos Contrato",
	"Liquidado",
	"SP Lib",
	"Tiene OS",
	"OS Lib",
	"HES",
}

// StatusCount is one slice of the status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ScopeToUser keeps the rows whose trimmed, lowercased Proveedor equals the
// trimmed, lowercased username. Only exact matches are kept.
func ScopeToUser(records *model.RecordTable, username string) *model.RecordTable {
	wanted := normalize(username)
	rows := make([]model.Record, 0)
	if records != nil {
		for _, r := range records.Rows {
			if normalize(r.Proveedor) == wanted {
				rows = append(rows, r)
			}
		}
	}
	return records.WithRows(rows)
}

// ApplyStatusFilter keeps the rows whose trimmed Estado equals status.
// session.StatusAll returns records unchanged.
func ApplyStatusFilter(records *model.RecordTable, status string) *model.RecordTable {
	if status == session.StatusAll {
		return records
	}
	rows := make([]model.Record, 0)
	if records != nil {
		for _, r := range records.Rows {
			if strings.TrimSpace(r.Estado) == status {
				rows = append(rows, r)
			}
		}
	}
	return records.WithRows(rows)
}

// StatusDistribution counts rows per trimmed Estado, skipping blank ones.
func StatusDistribution(records *model.RecordTable) map[string]int {
	counts := make(map[string]int)
	if records == nil {
		return counts
	}
	for _, r := range records.Rows {
		status := strings.TrimSpace(r.Estado)
		if status == "" {
			continue
		}
		counts[status]++
	}
	return counts
}

// SortedDistribution orders a distribution by descending count, then status.
func SortedDistribution(counts map[string]int) []StatusCount {
	out := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// AvailableStatuses returns session.StatusAll followed by the sorted distinct
// non-blank statuses of records.
func AvailableStatuses(records *model.RecordTable) []string {
	counts := StatusDistribution(records)
	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	return append([]string{session.StatusAll}, statuses...)
}

// VisibleColumns returns the header of records in source order without
// ExcludedColumns.
func VisibleColumns(records *model.RecordTable) []string {
	if records == nil {
		return []string{}
	}
	columns := make([]string, 0, len(records.Columns))
	for _, column := range records.Columns {
		if slices.Contains(ExcludedColumns, column) {
			continue
		}
		columns = append(columns, column)
	}
	return columns
}

// Project returns the cells of records restricted to columns, row by row.
func Project(records *model.RecordTable, columns []string) [][]string {
	if records == nil {
		return [][]string{}
	}
	rows := make([][]string, 0, len(records.Rows))
	for _, r := range records.Rows {
		cells := make([]string, len(columns))
		for i, column := range columns {
			cells[i] = r.Get(column)
		}
		rows = append(rows, cells)
	}
	return rows
}
