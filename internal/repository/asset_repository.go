package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/harx/gig-wizard-api/internal/models"
)

// AssetRepository stores metadata for uploaded documentation files.
type AssetRepository struct {
	db *sqlx.DB
}

// NewAssetRepository constructs the repository.
func NewAssetRepository(db *sqlx.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// Create inserts asset metadata.
func (r *AssetRepository) Create(ctx context.Context, asset *models.GigAsset) error {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	asset.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO gig_assets (id, gig_id, kind, filename, file_path, mime_type, size_bytes, created_at)
VALUES (:id, :gig_id, :kind, :filename, :file_path, :mime_type, :size_bytes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, asset); err != nil {
		return fmt.Errorf("create gig asset: %w", err)
	}
	return nil
}

// FindByID returns an asset. sql.ErrNoRows is returned when it does not exist.
func (r *AssetRepository) FindByID(ctx context.Context, id string) (*models.GigAsset, error) {
	const query = `SELECT id, gig_id, kind, filename, file_path, mime_type, size_bytes, created_at FROM gig_assets WHERE id = $1`
	var asset models.GigAsset
	if err := r.db.GetContext(ctx, &asset, query, id); err != nil {
		return nil, err
	}
	return &asset, nil
}

// ListByGig returns a gig's assets, newest first.
func (r *AssetRepository) ListByGig(ctx context.Context, gigID string) ([]models.GigAsset, error) {
	const query = `SELECT id, gig_id, kind, filename, file_path, mime_type, size_bytes, created_at
FROM gig_assets WHERE gig_id = $1 ORDER BY created_at DESC`
	var assets []models.GigAsset
	if err := r.db.SelectContext(ctx, &assets, query, gigID); err != nil {
		return nil, fmt.Errorf("list gig assets: %w", err)
	}
	return assets, nil
}

// Delete removes asset metadata.
func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM gig_assets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete gig asset: %w", err)
	}
	return nil
}
