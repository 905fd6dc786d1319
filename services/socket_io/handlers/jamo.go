package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"

	models "Maru/models/rooms"
	"Maru/services/dictionary"
	games_service "Maru/services/games"
	"Maru/services/games/jamo"
	rooms_service "Maru/services/rooms"
	socketio_types "Maru/services/socket_io/types"
	socketio_utils "Maru/services/socket_io/utils"
)

// Jamo word game events. Players own numbered cells holding Korean jamo
// and cooperate over chat to compose dictionary words; a word's score is
// the sum of the cell numbers that spelled it.

func HandleJamoStartRound(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "start_round")
}

func HandleJamoForceEnd(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "force-end")
}

func HandleJamoNewGame(gameService *games_service.Service, client *socket.Socket,
	sessionID, username string) func(args ...interface{}) {
	return gameAction(gameService, client, sessionID, username, "new-game")
}

func HandleJamoGetState(gameService *games_service.Service, client *socket.Socket,
	sessionID string) func(args ...interface{}) {
	return gameState(gameService, client, sessionID)
}

// HandleJamoSendChat relays a discussion message to the whole room. The
// server never parses chat content; word claims only happen through
// jamo_submit_numbers.
func HandleJamoSendChat(registry *rooms_service.Registry, sio *socketio_types.SocketServer,
	client *socket.Socket, sessionID, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		ack, rest := socketio_utils.ExtractAck(args)
		payload := socketio_utils.Payload(rest)
		roomID, _ := payload["room_id"].(string)
		message, _ := payload["message"].(string)

		if message == "" {
			socketio_utils.ReplyErr(ack, client, "Message is empty")
			return
		}
		if !registry.IsMember(roomID, sessionID) {
			socketio_utils.ReplyServiceErr(ack, client, rooms_service.ErrPlayerNotFound)
			return
		}

		sio.ToRoom(roomID, "jamo_chat", gin.H{
			"room_id": roomID,
			"player":  username,
			"message": message,
		})
		socketio_utils.ReplyOK(ack, nil)
	}
}

// HandleJamoSubmitNumbers runs the word claim. The dictionary lookup can
// take seconds, so the flow is split in three steps: validate and
// compose under the room lock, look the word up with no lock held, then
// re-validate and commit under the lock again. Between validation and
// commit the round may end or a rival may claim the same word; the
// commit re-checks both and the first committed claim wins.
func HandleJamoSubmitNumbers(gameService *games_service.Service, dict *dictionary.Client,
	sio *socketio_types.SocketServer, client *socket.Socket, sessionID, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		ack, rest := socketio_utils.ExtractAck(args)
		payload := socketio_utils.Payload(rest)
		roomID, _ := payload["room_id"].(string)

		numbers, ok := games_service.PayloadIntSlice(payload, "numbers")
		if !ok {
			socketio_utils.ReplyErr(ack, client, "Cell numbers are required")
			return
		}

		var word string
		var round int
		err := gameService.WithRoom(roomID, func(room *models.Room, eng games_service.Engine) error {
			jamoEng, ok := eng.(*jamo.Engine)
			if !ok {
				return games_service.ErrUnknownAction
			}
			w, r, perr := jamoEng.PrepareSubmission(room, sessionID, numbers)
			if perr != nil {
				return perr
			}
			word, round = w, r
			return nil
		})
		if err != nil {
			socketio_utils.ReplyServiceErr(ack, client, err)
			return
		}

		found, err := dict.Lookup(word)
		if err != nil {
			log.Printf("[JAMO-ERROR] Dictionary lookup for %q failed: %v", word, err)
			socketio_utils.ReplyServiceErr(ack, client, games_service.ErrDictionary)
			return
		}
		if !found {
			socketio_utils.ReplyOK(ack, gin.H{"accepted": false, "word": word, "message": "Not in the dictionary"})
			return
		}

		var score int
		err = gameService.WithRoom(roomID, func(room *models.Room, eng games_service.Engine) error {
			jamoEng := eng.(*jamo.Engine)
			sc, cerr := jamoEng.CommitSubmission(room, sessionID, word, round, numbers)
			if cerr != nil {
				return cerr
			}
			score = sc
			// Emitted under the room lock so claims arrive in commit order.
			sio.ToRoom(roomID, "jamo_word_accepted", gin.H{
				"room_id": roomID,
				"player":  username,
				"word":    word,
				"score":   score,
			})
			return nil
		})
		if err != nil {
			socketio_utils.ReplyServiceErr(ack, client, err)
			return
		}

		socketio_utils.ReplyOK(ack, gin.H{"accepted": true, "word": word, "score": score})
	}
}
