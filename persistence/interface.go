// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/memorygrid/models"
)

// Database stores finished games and leaderboard standings. Two
// implementations exist, raw database/sql (lib/pq) and gorm, selected by
// the database.driver config key.
type Database interface {
	SaveGameRecord(record *models.GameRecord) error
	UpsertPlayerBest(userID int64, score, level int) error
	LoadPlayerBest(userID int64) (*models.PlayerBest, error)
	TopScores(limit int) ([]models.PlayerBest, error)
	PlayerStats(userID int64) (*models.PlayerStats, error)
	Close() error
}

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
