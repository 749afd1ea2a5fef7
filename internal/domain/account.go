package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InitialBalance is the cash endowment every account starts with and
// returns to after a reset.
var InitialBalance = decimal.RequireFromString("100000.00")

// Account represents a trading account in the domain layer.
// The balance is mutated only by trade execution and account reset.
type Account struct {
	ID        uuid.UUID
	Username  string
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// Validate ensures the account adheres to domain rules
func (a *Account) Validate() error {
	if a.Username == "" {
		return ErrInvalidAccount
	}
	if a.Balance.IsNegative() {
		return ErrInvalidAccount
	}
	return nil
}
