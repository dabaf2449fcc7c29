package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kenta/pressbox/internal/model"
)

// PostgresArticleRepo はPostgreSQLを使用した記事リポジトリ。
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo はPostgresArticleRepoを生成する。
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

// Create は記事を作成する。
func (r *PostgresArticleRepo) Create(ctx context.Context, article *model.Article) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO articles (id, title, content, image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		article.ID, article.Title, article.Content, article.ImageURL, article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	article := &model.Article{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, content, image_url, created_at, updated_at
		 FROM articles WHERE id = $1`,
		id,
	).Scan(&article.ID, &article.Title, &article.Content, &article.ImageURL, &article.CreatedAt, &article.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find article: %w", err)
	}

	return article, nil
}

// List は全記事を作成日時の降順で返す。
func (r *PostgresArticleRepo) List(ctx context.Context) ([]*model.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, content, image_url, created_at, updated_at
		 FROM articles ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// ListPage は作成日時の降順でoffsetから最大limit件の記事を返す。
func (r *PostgresArticleRepo) ListPage(ctx context.Context, offset, limit int) ([]*model.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, content, image_url, created_at, updated_at
		 FROM articles ORDER BY created_at DESC
		 OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles page: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// Count は記事の総数を返す。
func (r *PostgresArticleRepo) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM articles`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return total, nil
}

// Update は記事のtitle/content/updated_atを上書き更新する。
func (r *PostgresArticleRepo) Update(ctx context.Context, article *model.Article) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE articles SET title = $2, content = $3, updated_at = $4 WHERE id = $1`,
		article.ID, article.Title, article.Content, article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewArticleNotFoundError()
	}
	return nil
}

// DeleteByID は指定IDの記事を削除する。
// 対象が存在しない場合はmodel.APIError(404)を返す。
func (r *PostgresArticleRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM articles WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewArticleNotFoundError()
	}
	return nil
}

// scanArticles はクエリ結果から記事スライスを構築する。
func scanArticles(rows *sql.Rows) ([]*model.Article, error) {
	articles := []*model.Article{}
	for rows.Next() {
		article := &model.Article{}
		if err := rows.Scan(&article.ID, &article.Title, &article.Content, &article.ImageURL, &article.CreatedAt, &article.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}
	return articles, nil
}

// compile-time interface check
var _ ArticleRepository = (*PostgresArticleRepo)(nil)
