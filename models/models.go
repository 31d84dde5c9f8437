// models/models.go
package models

import (
	"time"
)

// GameRecord is one finished game: the final session state when the round
// engine reached the over phase (or the score at disconnect).
type GameRecord struct {
	SessionID string    `json:"session_id"`
	UserID    int64     `json:"user_id"`
	Score     int       `json:"score"`
	Level     int       `json:"level"`
	GridSize  int       `json:"grid_size"`
	Duration  int       `json:"duration"` // seconds
	CreatedAt time.Time `json:"created_at"`
}

// PlayerBest is a player's standing on the leaderboard.
type PlayerBest struct {
	UserID      int64     `json:"user_id"`
	BestScore   int       `json:"best_score"`
	BestLevel   int       `json:"best_level"`
	GamesPlayed int       `json:"games_played"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlayerStats aggregates a player's game records.
type PlayerStats struct {
	TotalGames    int `json:"total_games"`
	BestScore     int `json:"best_score"`
	BestLevel     int `json:"best_level"`
	TotalDuration int `json:"total_duration"` // seconds
}
