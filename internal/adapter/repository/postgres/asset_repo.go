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

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{db: db}
}

const assetColumns = `id, ticker, name, feed_symbol, current_price, active, created_at`

// GetByID retrieves an asset by its ID
func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByTicker retrieves an asset by its ticker
func (r *assetRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE ticker = $1`
	return r.getOne(ctx, query, ticker)
}

func (r *assetRepository) getOne(ctx context.Context, query string, arg any) (*domain.Asset, error) {
	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnknownAsset
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return asset, nil
}

// List retrieves all assets; when activeOnly is true, only active ones
func (r *assetRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY ticker`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// Create creates a new asset
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (id, ticker, name, feed_symbol, current_price, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.Ticker,
		asset.Name,
		asset.FeedSymbol,
		asset.CurrentPrice.String(),
		asset.Active,
		asset.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

// Update updates the asset's name, feed symbol and active flag.
// The ticker is immutable once created.
func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	query := `
		UPDATE assets
		SET name = $2, feed_symbol = $3, active = $4
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.Name,
		asset.FeedSymbol,
		asset.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check asset update: %w", err)
	}
	if affected == 0 {
		return domain.ErrUnknownAsset
	}

	return nil
}

// UpdatePrice persists the latest fetched price for an asset
func (r *assetRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	query := `UPDATE assets SET current_price = $2 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, price.String())
	if err != nil {
		return fmt.Errorf("failed to update asset price: %w", err)
	}

	return nil
}

// Delete removes an asset
func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check asset delete: %w", err)
	}
	if affected == 0 {
		return domain.ErrUnknownAsset
	}

	return nil
}

// HasHoldings reports whether any account currently holds the asset
func (r *assetRepository) HasHoldings(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM holdings WHERE asset_id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check asset holdings: %w", err)
	}
	return exists, nil
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var asset domain.Asset
	var priceStr string

	err := row.Scan(
		&asset.ID,
		&asset.Ticker,
		&asset.Name,
		&asset.FeedSymbol,
		&priceStr,
		&asset.Active,
		&asset.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_price: %w", err)
	}
	asset.CurrentPrice = price

	return &asset, nil
}
