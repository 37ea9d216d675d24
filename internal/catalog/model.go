package catalog

import "fmt"

// Ledger selects which of the parallel budget ledgers a catalog read or
// write addresses. Departments are shared; types and sub-types are per ledger.
type Ledger string

const (
	LedgerIncome Ledger = "income"
	LedgerSpend  Ledger = "spend"
	LedgerPSpend Ledger = "p-spend"
)

// ParseLedger validates a ledger segment coming from a URL.
func ParseLedger(s string) (Ledger, error) {
	switch Ledger(s) {
	case LedgerIncome, LedgerSpend, LedgerPSpend:
		return Ledger(s), nil
	}
	return "", fmt.Errorf("unknown ledger %q", s)
}

func (l Ledger) typePath() string {
	return "/" + string(l) + "-type"
}

func (l Ledger) subTypePath() string {
	return "/" + string(l) + "-sub-type"
}

// Department is the root of the catalog hierarchy.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Type belongs to exactly one department.
type Type struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DepartmentID int64  `json:"departmentId"`
}

// SubType belongs to exactly one type.
type SubType struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	TypeID int64  `json:"typeId"`
}
