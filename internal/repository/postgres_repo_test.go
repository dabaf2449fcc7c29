package repository

import (
	"testing"
)

// 各PostgresリポジトリがインターフェースSetを満たすことを検証
func TestPostgresRepos_ImplementInterfaces(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
	var _ ArticleRepository = (*PostgresArticleRepo)(nil)
	var _ ImageAssetRepository = (*PostgresImageAssetRepo)(nil)
}

// NewPostgresUserRepoが正しく初期化されることを検証
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresSessionRepoが正しく初期化されることを検証
func TestNewPostgresSessionRepo_Initializes(t *testing.T) {
	repo := NewPostgresSessionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresArticleRepoが正しく初期化されることを検証
func TestNewPostgresArticleRepo_Initializes(t *testing.T) {
	repo := NewPostgresArticleRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresImageAssetRepoが正しく初期化されることを検証
func TestNewPostgresImageAssetRepo_Initializes(t *testing.T) {
	repo := NewPostgresImageAssetRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}
