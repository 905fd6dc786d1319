package game_constants

import "time"

// ---------------------------------------------------------------
// ROUND TIMEOUTS
// ---------------------------------------------------------------
const (
	HORSE_ROUND_TIMEOUT   = 90 * time.Second
	JAMO_ROUND_TIMEOUT    = 3 * time.Minute
	ANIMAL_ROUND_TIMEOUT  = 60 * time.Second
	MYSTERY_ROUND_TIMEOUT = 5 * time.Minute
)

// Horse race constants
const (
	HORSE_STARTING_CHIPS  = 20
	HORSE_FINISH_LINE     = 10
	HORSE_TOP_ADVANCE     = 2
	HORSE_SECOND_ADVANCE  = 1
	HORSE_VOTE_BONUS      = 2
	HORSE_SOLO_VOTE_BONUS = 5
)

// Jamo word game constants
const (
	JAMO_BOARD_SIZE    = 24
	JAMO_MIN_SYLLABLES = 2
	JAMO_MAX_ROUNDS    = 3
)

// Animal game constants
const (
	ANIMAL_MAX_ROUNDS      = 5
	ANIMAL_SURVIVE_POINTS  = 1
	ANIMAL_PEEK_COOLDOWN   = 2 // rounds between uses
	ANIMAL_SHIELD_COOLDOWN = 3
)

// Room constants
const (
	MIN_PLAYERS_PER_ROOM = 2
	MAX_PLAYERS_PER_ROOM = 12
)
