package domain

import "errors"

// Trade-time errors are request-local: they are reported to the caller with
// no partial state change.
var (
	// ErrInvalidQuantity means the requested quantity is zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrUnknownAsset means no tracked asset matches the given ticker or id.
	ErrUnknownAsset = errors.New("unknown asset")

	// ErrAssetInactive means the asset has been deactivated and cannot be
	// bought. Existing holdings remain sellable and valuable.
	ErrAssetInactive = errors.New("asset is not active")

	// ErrInsufficientFunds means the buy cost exceeds the account balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientHoldings means the sell quantity exceeds the owned
	// quantity.
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrPriceUnavailable means the price cache has no quote for the asset.
	// The request fails hard rather than trading at a zero or default price.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrAccountNotFound means no account matches the given id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidAccount means the account fails domain validation.
	ErrInvalidAccount = errors.New("invalid account")

	// ErrAssetInUse means the asset cannot be deleted while holdings
	// reference it.
	ErrAssetInUse = errors.New("asset is held by at least one account")

	// ErrConcurrencyConflict means the store detected a lost update.
	// Safe to retry the request once.
	ErrConcurrencyConflict = errors.New("concurrent modification detected")
)
