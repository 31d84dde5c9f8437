// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormGameRecord mirrors GameRecord for the gorm driver.
type GormGameRecord struct {
	gorm.Model
	SessionID string `gorm:"index;not null"`
	UserID    int64  `gorm:"index"`
	Score     int    `gorm:"not null"`
	Level     int    `gorm:"not null;default:1"`
	GridSize  int    `gorm:"not null;default:3"`
	Duration  int    `gorm:"default:0"` // seconds
}

// GormPlayerBest mirrors PlayerBest for the gorm driver.
type GormPlayerBest struct {
	gorm.Model
	UserID      int64 `gorm:"uniqueIndex;not null"`
	BestScore   int   `gorm:"default:0"`
	BestLevel   int   `gorm:"default:1"`
	GamesPlayed int   `gorm:"default:0"`
}
