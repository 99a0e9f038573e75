package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fiadopay/gateway/internal/domain"
	"github.com/jackc/pgx/v5"
)

// MerchantRepository is the read-only merchant directory.
type MerchantRepository struct {
	db *DB
}

func NewMerchantRepository(db *DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

// FindByID retrieves a merchant; nil, nil when the id is unknown
func (r *MerchantRepository) FindByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	query := `
		SELECT id, name, webhook_url, status
		FROM merchants WHERE id = $1
	`

	var m MerchantModel
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.WebhookURL, &m.Status,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan merchant: %w", err)
	}
	return toDomainMerchant(m), nil
}
