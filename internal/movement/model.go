package movement

import (
	"github.com/shopspring/decimal"

	"github.com/tesoro-admin/tesoro/internal/money"
)

// Movement is a single recorded transaction on one of the ledgers: a real
// income or spend carries a date, a projected spend does not.
type Movement struct {
	ID        int64
	Amount    decimal.Decimal
	Date      string
	SubTypeID int64
}

type movementWire struct {
	ID        int64  `json:"id"`
	Amount    string `json:"amount"`
	Date      string `json:"date,omitempty"`
	SubTypeID int64  `json:"subTypeId"`
}

func (m movementWire) toDomain() Movement {
	return Movement{
		ID:        m.ID,
		Amount:    money.FromWire(m.Amount),
		Date:      m.Date,
		SubTypeID: m.SubTypeID,
	}
}
