package holding

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Holding represents a portfolio position. Read-only to the monitoring core;
// it is created and edited by the portfolio management layer.
type Holding struct {
	ID           uuid.UUID       `db:"id"`
	UserID       uuid.UUID       `db:"user_id"`
	Symbol       string          `db:"symbol"`
	Shares       decimal.Decimal `db:"shares"`
	CostBasis    decimal.Decimal `db:"cost_basis"` // per share
	PurchaseDate *time.Time      `db:"purchase_date"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// CostBasisValue returns the per-share cost basis as float64 for evaluator math.
func (h *Holding) CostBasisValue() float64 {
	return h.CostBasis.InexactFloat64()
}

// TotalCost returns the total cost basis for this position.
func (h *Holding) TotalCost() decimal.Decimal {
	return h.Shares.Mul(h.CostBasis)
}
