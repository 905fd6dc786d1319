package handlers

import (
	"github.com/zishang520/socket.io/v2/socket"

	games_service "Maru/services/games"
)

// Murder mystery events. One hidden murderer, a timed discussion, then a
// single accusation vote per player; the reveal settles whether the
// citizens caught the right person.

func HandleMysteryStart(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "start")
}

func HandleMysteryVote(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "vote")
}

func HandleMysteryForceReveal(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "force-reveal")
}

func HandleMysteryNewGame(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "new-game")
}

func HandleMysteryGetState(gameService *games_service.Service, client *socket.Socket,
	sessionID string) func(args ...interface{}) {
	return gameState(gameService, client, sessionID)
}
