// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーの完全なレコードを表す。
// PasswordHashを含むため、APIレスポンスには直接使用せずToPublic()で変換する。
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPublic はAPIレスポンス用のユーザー公開プロジェクション。
// パスワードハッシュを含まない。
type UserPublic struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToPublic はUserから公開プロジェクションを生成する。
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Session はユーザーのログインセッションを表す。
// セッションの存在と非期限切れが認証の唯一の証明となる。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
