package redis

import (
	redis_utils "Maru/services/redis/utils"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations: the dictionary verdict cache and
// the cumulative win ranking. Authoritative room state never lives here.
type RedisClient struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(addr string, db int) *RedisClient {
	var client *redis.Client
	if addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})
	}
	return &RedisClient{
		Client: client,
		Ctx:    context.Background(),
	}
}

// CacheDictionaryVerdict remembers whether the external dictionary knows
// a word, so repeated submissions of the same word don't re-hit the API.
// Key format: "dict:{word}", TTL 24 hours.
func (rc *RedisClient) CacheDictionaryVerdict(word string, found bool) error {
	value := "0"
	if found {
		value = "1"
	}
	key := redis_utils.FormatDictionaryKey(word)
	if err := rc.Client.Set(rc.Ctx, key, value, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("error caching dictionary verdict: %v", err)
	}
	return nil
}

// GetDictionaryVerdict returns (verdict, cached). A missing key is not
// an error, it just means the word has to be looked up.
func (rc *RedisClient) GetDictionaryVerdict(word string) (found bool, cached bool, err error) {
	key := redis_utils.FormatDictionaryKey(word)
	value, err := rc.Client.Get(rc.Ctx, key).Result()
	if err == redis.Nil {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("error reading dictionary verdict: %v", err)
	}
	return value == "1", true, nil
}

// IncrementWins bumps a player's cumulative win counter on the ranking
// sorted set.
func (rc *RedisClient) IncrementWins(username string) error {
	if err := rc.Client.ZIncrBy(rc.Ctx, redis_utils.RankingKey, 1, username).Err(); err != nil {
		return fmt.Errorf("error incrementing wins for %s: %v", username, err)
	}
	return nil
}

// RankingEntry is one row of the public leaderboard.
type RankingEntry struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

// TopRanking returns the N players with the most wins, best first.
func (rc *RedisClient) TopRanking(n int64) ([]RankingEntry, error) {
	scores, err := rc.Client.ZRevRangeWithScores(rc.Ctx, redis_utils.RankingKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading ranking: %v", err)
	}
	entries := make([]RankingEntry, 0, len(scores))
	for _, z := range scores {
		name, _ := z.Member.(string)
		entries = append(entries, RankingEntry{Username: name, Wins: int(z.Score)})
	}
	return entries, nil
}
