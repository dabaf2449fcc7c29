package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kenta/pressbox/internal/model"
)

// PostgresImageAssetRepo はPostgreSQLを使用したギャラリー画像リポジトリ。
type PostgresImageAssetRepo struct {
	db *sql.DB
}

// NewPostgresImageAssetRepo はPostgresImageAssetRepoを生成する。
func NewPostgresImageAssetRepo(db *sql.DB) *PostgresImageAssetRepo {
	return &PostgresImageAssetRepo{db: db}
}

// CreateBatch は複数の画像レコードを同一トランザクションで作成する。
// 一括アップロードの永続化は全件成功か全件なしのどちらかになる。
func (r *PostgresImageAssetRepo) CreateBatch(ctx context.Context, assets []*model.ImageAsset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, asset := range assets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO image_assets (id, image_url, created_at, updated_at)
			 VALUES ($1, $2, $3, $4)`,
			asset.ID, asset.ImageURL, asset.CreatedAt, asset.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert image asset: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// List は全画像レコードを作成日時の降順で返す。
func (r *PostgresImageAssetRepo) List(ctx context.Context) ([]*model.ImageAsset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, image_url, created_at, updated_at
		 FROM image_assets ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list image assets: %w", err)
	}
	defer rows.Close()

	assets := []*model.ImageAsset{}
	for rows.Next() {
		asset := &model.ImageAsset{}
		if err := rows.Scan(&asset.ID, &asset.ImageURL, &asset.CreatedAt, &asset.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate image assets: %w", err)
	}

	return assets, nil
}

// compile-time interface check
var _ ImageAssetRepository = (*PostgresImageAssetRepo)(nil)
