package projection

import (
	"github.com/shopspring/decimal"

	"github.com/tesoro-admin/tesoro/internal/money"
)

// State of a yearly projection record.
const (
	StateOpen   = "OPEN"
	StateClosed = "CLOSED"
)

// Projection is the yearly aggregate budget record. Its total must equal the
// sum of its per-category amounts; the engine restores that invariant.
type Projection struct {
	ID    int64
	Year  int
	Total decimal.Decimal
	State string
}

// CategoryLine is a budget line item with the amount assigned to it for one
// projection. A nil amount means no assignment yet and counts as zero.
type CategoryLine struct {
	CategoryID int64
	Name       string
	Amount     *decimal.Decimal
}

// View is one year's projection as the dashboard sees it: the remote record,
// its category lines and the locally computed authoritative total.
type View struct {
	Projection Projection
	Lines      []CategoryLine
	Total      decimal.Decimal
}

// wire shapes of the budget store.

type projectionWire struct {
	ID          int64  `json:"id"`
	Year        int    `json:"year"`
	TotalAmount string `json:"total_amount"`
	State       string `json:"state"`
}

func (p projectionWire) toDomain() Projection {
	return Projection{
		ID:    p.ID,
		Year:  p.Year,
		Total: money.FromWire(p.TotalAmount),
		State: p.State,
	}
}

type categoryWire struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	CategoryAmount *string `json:"category_amount"`
}

func (c categoryWire) toDomain() CategoryLine {
	line := CategoryLine{CategoryID: c.ID, Name: c.Name}
	if c.CategoryAmount != nil {
		amount := money.FromWire(*c.CategoryAmount)
		line.Amount = &amount
	}
	return line
}
