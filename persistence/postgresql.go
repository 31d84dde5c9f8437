// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/wfunc/memorygrid/models"
)

// PostgreSQL is the raw database/sql implementation.
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL opens a connection pool and ensures the schema exists.
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
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

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            session_id VARCHAR(255) NOT NULL,
            user_id BIGINT NOT NULL DEFAULT 0,
            score INT NOT NULL,
            level INT NOT NULL,
            grid_size INT NOT NULL,
            duration INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS player_bests (
            id SERIAL PRIMARY KEY,
            user_id BIGINT UNIQUE NOT NULL,
            best_score INT NOT NULL DEFAULT 0,
            best_level INT NOT NULL DEFAULT 1,
            games_played INT NOT NULL DEFAULT 0,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	return err
}

// SaveGameRecord inserts one finished game.
func (p *PostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	_, err := p.db.Exec(`
        INSERT INTO game_records (session_id, user_id, score, level, grid_size, duration)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		record.SessionID, record.UserID, record.Score, record.Level, record.GridSize, record.Duration,
	)
	return err
}

// UpsertPlayerBest bumps the games-played counter and keeps the best score
// and level monotonically increasing.
func (p *PostgreSQL) UpsertPlayerBest(userID int64, score, level int) error {
	_, err := p.db.Exec(`
        INSERT INTO player_bests (user_id, best_score, best_level, games_played, updated_at)
        VALUES ($1, $2, $3, 1, CURRENT_TIMESTAMP)
        ON CONFLICT (user_id) DO UPDATE SET
            best_score = GREATEST(player_bests.best_score, EXCLUDED.best_score),
            best_level = GREATEST(player_bests.best_level, EXCLUDED.best_level),
            games_played = player_bests.games_played + 1,
            updated_at = CURRENT_TIMESTAMP`,
		userID, score, level,
	)
	return err
}

// LoadPlayerBest returns a player's leaderboard row.
func (p *PostgreSQL) LoadPlayerBest(userID int64) (*models.PlayerBest, error) {
	var best models.PlayerBest
	err := p.db.QueryRow(`
        SELECT user_id, best_score, best_level, games_played, updated_at
        FROM player_bests WHERE user_id = $1`, userID,
	).Scan(&best.UserID, &best.BestScore, &best.BestLevel, &best.GamesPlayed, &best.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &best, nil
}

// TopScores returns the leaderboard, best score first.
func (p *PostgreSQL) TopScores(limit int) ([]models.PlayerBest, error) {
	rows, err := p.db.Query(`
        SELECT user_id, best_score, best_level, games_played, updated_at
        FROM player_bests ORDER BY best_score DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.PlayerBest
	for rows.Next() {
		var best models.PlayerBest
		if err := rows.Scan(&best.UserID, &best.BestScore, &best.BestLevel, &best.GamesPlayed, &best.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, best)
	}
	return result, rows.Err()
}

// PlayerStats aggregates a player's game records.
func (p *PostgreSQL) PlayerStats(userID int64) (*models.PlayerStats, error) {
	var stats models.PlayerStats
	err := p.db.QueryRow(`
        SELECT
            COUNT(*),
            COALESCE(MAX(score), 0),
            COALESCE(MAX(level), 0),
            COALESCE(SUM(duration), 0)
        FROM game_records WHERE user_id = $1`, userID,
	).Scan(&stats.TotalGames, &stats.BestScore, &stats.BestLevel, &stats.TotalDuration)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Close closes the connection pool.
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
