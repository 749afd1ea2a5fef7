package postgres

import (
	"context"
	"fmt"

	"github.com/blackspyek/cryptosim-backend/internal/domain"
)

// priceHistoryRepository implements domain.PriceHistoryRepository
type priceHistoryRepository struct {
	db *DB
}

// NewPriceHistoryRepository creates a new price history repository
func NewPriceHistoryRepository(db *DB) domain.PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

// Add creates a new price history entry
func (r *priceHistoryRepository) Add(ctx context.Context, point *domain.PricePoint) error {
	query := `
		INSERT INTO price_history (id, asset_id, price, recorded_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		point.ID,
		point.AssetID,
		point.Price.String(),
		point.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price point: %w", err)
	}

	return nil
}
