package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost はパスワードハッシュのワークファクター。
const bcryptCost = 10

// HashPassword は平文パスワードからbcryptハッシュを生成する。
// ソルトは呼び出しごとにランダム生成されダイジェストに埋め込まれる。
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword は平文パスワードとハッシュを比較する。
// 不一致の場合はfalseを返し、エラーにはしない。
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
