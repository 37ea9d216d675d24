package report

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Row is a denormalized movement joined with its catalog ancestry, as the
// dashboard table renders it. Dimension values are display names; a missing
// dimension is the empty string.
type Row struct {
	Department string          `json:"department"`
	Type       string          `json:"type"`
	SubType    string          `json:"subType"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
}

// DimensionTotal is one grouped aggregate, keyed by display name.
type DimensionTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// Summary carries the report aggregates, backend-supplied or derived.
type Summary struct {
	Total        decimal.Decimal  `json:"total"`
	ByDepartment []DimensionTotal `json:"byDepartment"`
	ByType       []DimensionTotal `json:"byType"`
}

// Report is the full answer for one ledger, date range and filter set.
type Report struct {
	Rows   []Row   `json:"rows"`
	Totals Summary `json:"totals"`
}

// Filters are the human-entered report filters before name resolution.
type Filters struct {
	Start          string
	End            string
	DepartmentName string
	TypeName       string
	SubTypeName    string
}

// wire shapes: the store is loose about these, so every field is decoded
// defensively.

type reportWire struct {
	Rows   []rowWire  `json:"rows"`
	Totals totalsWire `json:"totals"`
}

type rowWire struct {
	Department json.RawMessage `json:"department"`
	Type       json.RawMessage `json:"type"`
	SubType    json.RawMessage `json:"subType"`
	Date       string          `json:"date"`
	Amount     json.RawMessage `json:"amount"`
}

type totalsWire struct {
	Total        json.RawMessage `json:"total"`
	ByDepartment []dimWire       `json:"byDepartment"`
	ByType       []dimWire       `json:"byType"`
}

type dimWire struct {
	Department json.RawMessage `json:"department"`
	Type       json.RawMessage `json:"type"`
	Total      json.RawMessage `json:"total"`
}

func (r rowWire) normalize() Row {
	return Row{
		Department: displayName(r.Department),
		Type:       displayName(r.Type),
		SubType:    displayName(r.SubType),
		Date:       isoDate(r.Date),
		Amount:     coerceAmount(r.Amount),
	}
}

// displayName flattens either a plain string or a nested {"name": ...}
// reference to its display name.
func displayName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var ref struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &ref); err == nil {
		return ref.Name
	}
	return ""
}

// coerceAmount accepts a JSON number or a decimal string; anything else
// counts as zero rather than failing the whole report.
func coerceAmount(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err == nil {
		return d
	}
	return decimal.Zero
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// isoDate coerces a store date to ISO-8601 day precision, empty when
// unparseable.
func isoDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
