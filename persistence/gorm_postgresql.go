// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/memorygrid/models"
)

// GormPostgreSQL is the gorm-backed implementation.
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL opens the connection, configures the pool and migrates
// the schema.
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.GormGameRecord{}, &models.GormPlayerBest{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveGameRecord inserts one finished game.
func (p *GormPostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	row := models.GormGameRecord{
		SessionID: record.SessionID,
		UserID:    record.UserID,
		Score:     record.Score,
		Level:     record.Level,
		GridSize:  record.GridSize,
		Duration:  record.Duration,
	}
	return p.db.Create(&row).Error
}

// UpsertPlayerBest updates the leaderboard row inside one transaction so the
// best values and the games-played counter stay consistent.
func (p *GormPostgreSQL) UpsertPlayerBest(userID int64, score, level int) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		var best models.GormPlayerBest
		result := tx.Where("user_id = ?", userID).First(&best)

		if result.Error == gorm.ErrRecordNotFound {
			best = models.GormPlayerBest{
				UserID:      userID,
				BestScore:   score,
				BestLevel:   level,
				GamesPlayed: 1,
			}
			return tx.Create(&best).Error
		} else if result.Error != nil {
			return result.Error
		}

		if score > best.BestScore {
			best.BestScore = score
		}
		if level > best.BestLevel {
			best.BestLevel = level
		}
		best.GamesPlayed++
		return tx.Save(&best).Error
	})
}

// LoadPlayerBest returns a player's leaderboard row.
func (p *GormPostgreSQL) LoadPlayerBest(userID int64) (*models.PlayerBest, error) {
	var best models.GormPlayerBest
	if err := p.db.Where("user_id = ?", userID).First(&best).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &models.PlayerBest{
		UserID:      best.UserID,
		BestScore:   best.BestScore,
		BestLevel:   best.BestLevel,
		GamesPlayed: best.GamesPlayed,
		UpdatedAt:   best.UpdatedAt,
	}, nil
}

// TopScores returns the leaderboard, best score first.
func (p *GormPostgreSQL) TopScores(limit int) ([]models.PlayerBest, error) {
	var rows []models.GormPlayerBest
	if err := p.db.Order("best_score DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]models.PlayerBest, 0, len(rows))
	for _, row := range rows {
		result = append(result, models.PlayerBest{
			UserID:      row.UserID,
			BestScore:   row.BestScore,
			BestLevel:   row.BestLevel,
			GamesPlayed: row.GamesPlayed,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return result, nil
}

// PlayerStats aggregates a player's game records with one raw query.
func (p *GormPostgreSQL) PlayerStats(userID int64) (*models.PlayerStats, error) {
	var stats models.PlayerStats
	err := p.db.Raw(`
        SELECT
            COUNT(*) as total_games,
            COALESCE(MAX(score), 0) as best_score,
            COALESCE(MAX(level), 0) as best_level,
            COALESCE(SUM(duration), 0) as total_duration
        FROM gorm_game_records
        WHERE user_id = ? AND deleted_at IS NULL`,
		userID,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Close closes the underlying connection pool.
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
