package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side represents the direction of a trade
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Transaction represents an immutable, append-only trade record.
// Transactions are never mutated or deleted except by an account reset,
// which removes all of them for that account.
type Transaction struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	AssetID    uuid.UUID
	Side       Side
	Quantity   decimal.Decimal // always positive
	Price      decimal.Decimal // executed price, read from the price cache
	ExecutedAt time.Time
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
func (t *Transaction) Validate() error {
	if t.Side != SideBuy && t.Side != SideSell {
		return errors.New("transaction side must be BUY or SELL")
	}
	if t.Quantity.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction quantity must be positive")
	}
	if t.Price.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction price must be positive")
	}
	return nil
}
