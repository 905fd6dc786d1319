package sync

import (
	"encoding/json"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	models "Maru/models/postgres"
	"Maru/services/redis"
)

// SyncManager persists finished games: the durable record goes to
// PostgreSQL and the win leaderboard to Redis. The live game loop never
// blocks on it; failures are logged and the in-memory game is
// unaffected.
type SyncManager struct {
	redisClient *redis.RedisClient
	db          *gorm.DB
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(redisClient *redis.RedisClient, db *gorm.DB) *SyncManager {
	return &SyncManager{
		redisClient: redisClient,
		db:          db,
	}
}

// RecordGameEnd stores the outcome of a finished game and bumps the win
// counters of its winners.
func (sm *SyncManager) RecordGameEnd(roomName, gameType string, winners []string, finalScores map[string]int) {
	winnersJSON, err := json.Marshal(winners)
	if err != nil {
		log.Printf("[SYNC-ERROR] Could not encode winners for room %s: %v", roomName, err)
		return
	}
	scoresJSON, err := json.Marshal(finalScores)
	if err != nil {
		log.Printf("[SYNC-ERROR] Could not encode scores for room %s: %v", roomName, err)
		return
	}

	record := models.GameRecord{
		RoomName:    roomName,
		GameType:    gameType,
		Winners:     datatypes.JSON(winnersJSON),
		FinalScores: datatypes.JSON(scoresJSON),
		FinishedAt:  time.Now(),
	}
	if err := sm.db.Create(&record).Error; err != nil {
		log.Printf("[SYNC-ERROR] Could not persist game record for room %s: %v", roomName, err)
	}

	if sm.redisClient == nil {
		return
	}
	for _, winner := range winners {
		if err := sm.redisClient.IncrementWins(winner); err != nil {
			log.Printf("[SYNC-ERROR] Could not bump win counter for %s: %v", winner, err)
		}
	}
}
