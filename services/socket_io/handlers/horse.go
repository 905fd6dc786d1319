package handlers

import (
	"github.com/zishang520/socket.io/v2/socket"

	games_service "Maru/services/games"
)

// Horse racing events. Each round the riders bet chips on horses and
// vote for the horse they expect to top the tally; the engine resolves
// advancement and bonuses when the host ends the round or the countdown
// expires.

func HandleHorseStartRound(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "start-round")
}

// HandleHorseBet locks in a rider's chip allocation for the round. The
// whole allocation is validated and applied in one step; a second bet in
// the same round is rejected without touching the first.
func HandleHorseBet(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "bet")
}

func HandleHorseVote(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "vote")
}

// HandleHorseMemo stores a rider's private notes. Accepted in any phase,
// never broadcast.
func HandleHorseMemo(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "memo")
}

func HandleHorseForceEnd(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "force-end")
}

func HandleHorseNewGame(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "new-game")
}

func HandleHorseGetGameData(gameService *games_service.Service, client *socket.Socket,
	sessionID string) func(args ...interface{}) {
	return gameState(gameService, client, sessionID)
}
