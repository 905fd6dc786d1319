package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'GameRecord' persists the outcome of a finished game. Live room state is
 * held in memory only; a record row is written once, when a room's game
 * reaches its terminal phase.
 */
type GameRecord struct {
	ID          uint           `gorm:"primaryKey"`
	RoomName    string         `gorm:"size:50;not null;index:idx_game_records_room"`
	GameType    string         `gorm:"size:20;not null"`
	Winners     datatypes.JSON `gorm:"type:jsonb;default:'[]'"` // display names of the winning group
	FinalScores datatypes.JSON `gorm:"type:jsonb;default:'{}'"` // username -> final score/chips
	FinishedAt  time.Time      `gorm:"default:CURRENT_TIMESTAMP"`
}
