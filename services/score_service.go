package services

import (
	"time"

	"github.com/wfunc/memorygrid/models"
	"github.com/wfunc/memorygrid/persistence"
)

// ScoreService records finished games and serves leaderboard queries.
type ScoreService struct {
	db persistence.Database
}

func NewScoreService(db persistence.Database) *ScoreService {
	return &ScoreService{db: db}
}

// RecordResult persists a finished game and, when the session is bound to a
// user, updates that user's leaderboard standing.
func (s *ScoreService) RecordResult(sessionID string, userID int64, score, level, gridSize int, duration time.Duration) error {
	record := &models.GameRecord{
		SessionID: sessionID,
		UserID:    userID,
		Score:     score,
		Level:     level,
		GridSize:  gridSize,
		Duration:  int(duration.Seconds()),
	}
	if err := s.db.SaveGameRecord(record); err != nil {
		return err
	}

	if userID == 0 {
		// Anonymous session: record kept, no leaderboard entry.
		return nil
	}
	return s.db.UpsertPlayerBest(userID, score, level)
}

// TopScores returns the leaderboard.
func (s *ScoreService) TopScores(limit int) ([]models.PlayerBest, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.db.TopScores(limit)
}

// PlayerStats returns a player's aggregate record history together with
// their leaderboard row, when one exists.
func (s *ScoreService) PlayerStats(userID int64) (*models.PlayerStats, error) {
	stats, err := s.db.PlayerStats(userID)
	if err != nil {
		return nil, err
	}

	best, err := s.db.LoadPlayerBest(userID)
	if err == nil {
		if best.BestScore > stats.BestScore {
			stats.BestScore = best.BestScore
		}
		if best.BestLevel > stats.BestLevel {
			stats.BestLevel = best.BestLevel
		}
	} else if err != persistence.ErrRecordNotFound {
		return nil, err
	}
	return stats, nil
}
