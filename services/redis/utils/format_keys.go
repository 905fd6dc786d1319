package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

func FormatDictionaryKey(word string) string {
	return fmt.Sprintf("dict:%s", word)
}

// RankingKey is the sorted set holding cumulative win counts per player.
const RankingKey = "ranking:wins"
