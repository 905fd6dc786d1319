package handlers

import (
	"github.com/zishang520/socket.io/v2/socket"

	games_service "Maru/services/games"
)

// Animal hide-and-hunt events. One hidden hunter stalks the map while
// the animals move between places with limited capacity; abilities run
// on per-round cooldowns.

func HandleAnimalStart(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "start")
}

func HandleAnimalMove(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "move")
}

func HandleAnimalAbility(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "ability")
}

func HandleAnimalForceEnd(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "force-end")
}

func HandleAnimalNewGame(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "new-game")
}

func HandleAnimalGetState(gameService *games_service.Service, client *socket.Socket,
	sessionID string) func(args ...interface{}) {
	return gameState(gameService, client, sessionID)
}
