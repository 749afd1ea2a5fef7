package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Holding represents an (account, asset) position.
// AvgBuyPrice is the quantity-weighted average price paid for the current
// quantity; it is recomputed on buys only and deleted together with the
// holding when the quantity reaches exactly zero.
type Holding struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	AssetID     uuid.UUID
	Quantity    decimal.Decimal
	AvgBuyPrice decimal.Decimal
}

// Validate ensures the holding adheres to domain rules
func (h *Holding) Validate() error {
	if h.Quantity.IsNegative() {
		return errors.New("holding quantity cannot be negative")
	}
	if h.AvgBuyPrice.IsNegative() {
		return errors.New("holding average buy price cannot be negative")
	}
	return nil
}
