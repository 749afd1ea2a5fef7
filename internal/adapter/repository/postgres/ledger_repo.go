package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blackspyek/cryptosim-backend/internal/domain"
)

// ledgerRepository implements domain.LedgerRepository
type ledgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *DB) domain.LedgerRepository {
	return &ledgerRepository{db: db}
}

// GetAccount retrieves an account by its ID
func (r *ledgerRepository) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, username, balance, created_at
		FROM accounts
		WHERE id = $1
	`

	var account domain.Account
	var balanceStr string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.Username,
		&balanceStr,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	account.Balance = balance

	return &account, nil
}

// CreateAccount creates a new account
func (r *ledgerRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, username, balance, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.Balance.String(),
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetHolding retrieves the holding for an (account, asset) pair.
// Returns (nil, nil) when no row exists.
func (r *ledgerRepository) GetHolding(ctx context.Context, accountID, assetID uuid.UUID) (*domain.Holding, error) {
	query := `
		SELECT id, account_id, asset_id, quantity, avg_buy_price
		FROM holdings
		WHERE account_id = $1 AND asset_id = $2
	`

	holding, err := scanHolding(r.db.QueryRowContext(ctx, query, accountID, assetID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}
	return holding, nil
}

// ListHoldings retrieves all holdings for an account
func (r *ledgerRepository) ListHoldings(ctx context.Context, accountID uuid.UUID) ([]*domain.Holding, error) {
	query := `
		SELECT id, account_id, asset_id, quantity, avg_buy_price
		FROM holdings
		WHERE account_id = $1
		ORDER BY asset_id
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, holding)
	}
	return holdings, rows.Err()
}

// ApplyTrade applies the balance change, holding upsert/delete, and
// transaction append inside a single database transaction. The account row
// is locked first so concurrent trades against the same account serialize
// at the store as well.
func (r *ledgerRepository) ApplyTrade(ctx context.Context, m domain.TradeMutation) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	var lockedID uuid.UUID
	err = dbTx.QueryRowContext(ctx,
		`SELECT id FROM accounts WHERE id = $1 FOR UPDATE`, m.AccountID,
	).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("failed to lock account: %w", err)
	}

	_, err = dbTx.ExecContext(ctx,
		`UPDATE accounts SET balance = $2 WHERE id = $1`,
		m.AccountID, m.NewBalance.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	if m.Holding != nil {
		if m.Holding.Quantity.IsZero() {
			_, err = dbTx.ExecContext(ctx,
				`DELETE FROM holdings WHERE account_id = $1 AND asset_id = $2`,
				m.Holding.AccountID, m.Holding.AssetID,
			)
			if err != nil {
				return fmt.Errorf("failed to delete holding: %w", err)
			}
		} else {
			_, err = dbTx.ExecContext(ctx, `
				INSERT INTO holdings (id, account_id, asset_id, quantity, avg_buy_price)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (account_id, asset_id)
				DO UPDATE SET quantity = EXCLUDED.quantity,
				              avg_buy_price = EXCLUDED.avg_buy_price
			`,
				m.Holding.ID,
				m.Holding.AccountID,
				m.Holding.AssetID,
				m.Holding.Quantity.String(),
				m.Holding.AvgBuyPrice.String(),
			)
			if err != nil {
				return fmt.Errorf("failed to upsert holding: %w", err)
			}
		}
	}

	if m.Transaction != nil {
		_, err = dbTx.ExecContext(ctx, `
			INSERT INTO transactions (id, account_id, asset_id, side, quantity, price, executed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			m.Transaction.ID,
			m.Transaction.AccountID,
			m.Transaction.AssetID,
			string(m.Transaction.Side),
			m.Transaction.Quantity.String(),
			m.Transaction.Price.String(),
			m.Transaction.ExecutedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trade: %w", err)
	}

	return nil
}

// ResetAccount deletes all holdings and transactions for the account and
// restores the balance, all in one database transaction. Returns the number
// of rows removed from each table.
func (r *ledgerRepository) ResetAccount(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) (int64, int64, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	var lockedID uuid.UUID
	err = dbTx.QueryRowContext(ctx,
		`SELECT id FROM accounts WHERE id = $1 FOR UPDATE`, accountID,
	).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, domain.ErrAccountNotFound
		}
		return 0, 0, fmt.Errorf("failed to lock account: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, `DELETE FROM holdings WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete holdings: %w", err)
	}
	holdingsDeleted, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count deleted holdings: %w", err)
	}

	res, err = dbTx.ExecContext(ctx, `DELETE FROM transactions WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete transactions: %w", err)
	}
	transactionsDeleted, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count deleted transactions: %w", err)
	}

	_, err = dbTx.ExecContext(ctx,
		`UPDATE accounts SET balance = $2 WHERE id = $1`,
		accountID, balance.String(),
	)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to restore balance: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit reset: %w", err)
	}

	return holdingsDeleted, transactionsDeleted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(row rowScanner) (*domain.Holding, error) {
	var holding domain.Holding
	var quantityStr, avgPriceStr string

	err := row.Scan(
		&holding.ID,
		&holding.AccountID,
		&holding.AssetID,
		&quantityStr,
		&avgPriceStr,
	)
	if err != nil {
		return nil, err
	}

	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	holding.Quantity = quantity

	avgPrice, err := decimal.NewFromString(avgPriceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse avg_buy_price: %w", err)
	}
	holding.AvgBuyPrice = avgPrice

	return &holding, nil
}
