package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// コネクションプールの上限。記事・画像APIの同時リクエスト数に対して
// 十分な値で、PostgreSQL側のmax_connectionsを圧迫しない範囲に抑える。
const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
)

// Open はPostgreSQLへのコネクションプールを生成する。
// sql.Openはこの時点では接続を確立しないため、疎通確認は呼び出し側で
// db.Ping()を行うこと。
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return db, nil
}
