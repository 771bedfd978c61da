// directory/pq_store.go
package directory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"
)

// PQStore 基于 database/sql 的目录存储实现
type PQStore struct {
	db *sql.DB
}

// NewPQStore 创建 PostgreSQL 目录存储
func NewPQStore(host string, port int, user, password, dbname string) (*PQStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PQStore{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS lobbies (
            id SERIAL PRIMARY KEY,
            code TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL,
            player_count INT NOT NULL DEFAULT 0,
            round INT NOT NULL DEFAULT 1,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`)
	return err
}

// UpsertLobby 更新或创建大厅记录
func (s *PQStore) UpsertLobby(code, name string, playerCount, round int) error {
	_, err := s.db.Exec(`
        INSERT INTO lobbies (code, name, player_count, round, updated_at)
        VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
        ON CONFLICT (code) DO UPDATE SET
            name = EXCLUDED.name,
            player_count = EXCLUDED.player_count,
            round = EXCLUDED.round,
            updated_at = CURRENT_TIMESTAMP`,
		code, name, playerCount, round)
	return err
}

// RemoveLobby 删除大厅记录
func (s *PQStore) RemoveLobby(code string) error {
	result, err := s.db.Exec(`DELETE FROM lobbies WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListLobbies 列出所有可发现的大厅
func (s *PQStore) ListLobbies() ([]Lobby, error) {
	rows, err := s.db.Query(`
        SELECT code, name, player_count, round, updated_at
        FROM lobbies ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lobbies []Lobby
	for rows.Next() {
		var lobby Lobby
		if err := rows.Scan(&lobby.Code, &lobby.Name, &lobby.PlayerCount, &lobby.Round, &lobby.UpdatedAt); err != nil {
			return nil, err
		}
		lobbies = append(lobbies, lobby)
	}
	return lobbies, rows.Err()
}

// Close 关闭数据库连接
func (s *PQStore) Close() error {
	return s.db.Close()
}
