// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/kenta/pressbox/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// username/emailの一意制約違反はmodel.APIError(409)に変換して返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByID は指定IDのセッションを取得する。
	// 存在しないか期限切れの場合はnilを返す（ソフト失敗）。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// ExtendExpiry はセッションの有効期限を延長する（ローリング有効期間）。
	ExtendExpiry(ctx context.Context, id string, expiresAt time.Time) error

	// DeleteByID は指定IDのセッションを削除する。冪等に動作する。
	DeleteByID(ctx context.Context, id string) error
}

// ArticleRepository は記事データの永続化インターフェース。
type ArticleRepository interface {
	// Create は記事を作成する。
	Create(ctx context.Context, article *model.Article) error

	// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Article, error)

	// List は全記事を作成日時の降順で返す。
	List(ctx context.Context) ([]*model.Article, error)

	// ListPage は作成日時の降順でoffsetから最大limit件の記事を返す。
	ListPage(ctx context.Context, offset, limit int) ([]*model.Article, error)

	// Count は記事の総数を返す。
	Count(ctx context.Context) (int, error)

	// Update は記事のtitle/content/updated_atを上書き更新する。
	Update(ctx context.Context, article *model.Article) error

	// DeleteByID は指定IDの記事を削除する。
	// 対象が存在しない場合はmodel.APIError(404)を返す。
	DeleteByID(ctx context.Context, id string) error
}

// ImageAssetRepository はギャラリー画像データの永続化インターフェース。
type ImageAssetRepository interface {
	// CreateBatch は複数の画像レコードを同一トランザクションで作成する。
	// 1件でも失敗した場合は全件ロールバックされる。
	CreateBatch(ctx context.Context, assets []*model.ImageAsset) error

	// List は全画像レコードを作成日時の降順で返す。
	List(ctx context.Context) ([]*model.ImageAsset, error)
}
