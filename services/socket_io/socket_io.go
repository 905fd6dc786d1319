package socket_io

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"

	"Maru/services/dictionary"
	games_service "Maru/services/games"
	rooms_service "Maru/services/rooms"
	"Maru/services/socket_io/handlers"
	socketio_types "Maru/services/socket_io/types"
	socketio_utils "Maru/services/socket_io/utils"
)

type MySocketServer socketio_types.SocketServer

// Start wires the socket.io server into the gin router and registers
// the per-connection event handlers. Every handler closes over the
// authenticated identity, so events never carry (or trust) a username.
func (sio *MySocketServer) Start(router *gin.Engine, db *gorm.DB,
	registry *rooms_service.Registry, gameService *games_service.Service, dict *dictionary.Client) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.UserConnections = make(map[string]*socket.Socket)

	sioTyped := (*socketio_types.SocketServer)(sio)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Check if the client is authenticated
		success, sessionID, username := socketio_utils.VerifyUserConnection(client, db)
		if !success {
			return
		}

		sioTyped.AddConnection(sessionID, client)
		fmt.Println("An individual just connected!: ", username)

		// Rebind the socket to any room the identity already belongs to,
		// so a reconnect resumes broadcasts without a new join-room.
		for _, roomID := range registry.RoomsOf(sessionID) {
			registry.Bind(roomID, sessionID, string(client.Id()))
			client.Join(socket.Room(roomID))
		}

		// Room lifecycle
		client.On("create-room", handlers.HandleCreateRoom(registry, gameService, sioTyped, client, sessionID, username))
		client.On("join-room", handlers.HandleJoinRoom(registry, sioTyped, client, sessionID, username))
		client.On("leave-room", handlers.HandleLeaveRoom(registry, gameService, sioTyped, client, sessionID, username))
		client.On("check-room", handlers.HandleCheckRoom(registry, client, sessionID))
		client.On("check-room-host", handlers.HandleCheckRoomHost(registry, client, sessionID))
		client.On("get-room-list", handlers.HandleGetRoomList(registry, client))

		// Horse racing
		client.On("horse-start-round", handlers.HandleHorseStartRound(gameService, client, sessionID, username))
		client.On("horse-bet", handlers.HandleHorseBet(gameService, client, sessionID, username))
		client.On("horse-vote", handlers.HandleHorseVote(gameService, client, sessionID, username))
		client.On("horse-update-memo", handlers.HandleHorseMemo(gameService, client, sessionID, username))
		client.On("horse-force-end-round", handlers.HandleHorseForceEnd(gameService, client, sessionID, username))
		client.On("horse-new-game", handlers.HandleHorseNewGame(gameService, client, sessionID, username))
		client.On("horse-get-game-data", handlers.HandleHorseGetGameData(gameService, client, sessionID))

		// Jamo word game
		client.On("jamo_start_round", handlers.HandleJamoStartRound(gameService, client, sessionID, username))
		client.On("jamo_submit_numbers", handlers.HandleJamoSubmitNumbers(gameService, dict, sioTyped, client, sessionID, username))
		client.On("jamo_send_chat", handlers.HandleJamoSendChat(registry, sioTyped, client, sessionID, username))
		client.On("jamo_force_end", handlers.HandleJamoForceEnd(gameService, client, sessionID, username))
		client.On("jamo_new_game", handlers.HandleJamoNewGame(gameService, client, sessionID, username))
		client.On("jamo_get_state", handlers.HandleJamoGetState(gameService, client, sessionID))

		// Animal hide-and-hunt
		client.On("animal_start_round", handlers.HandleAnimalStart(gameService, client, sessionID, username))
		client.On("animal_move", handlers.HandleAnimalMove(gameService, client, sessionID, username))
		client.On("animal_ability", handlers.HandleAnimalAbility(gameService, client, sessionID, username))
		client.On("animal_force_end", handlers.HandleAnimalForceEnd(gameService, client, sessionID, username))
		client.On("animal_new_game", handlers.HandleAnimalNewGame(gameService, client, sessionID, username))
		client.On("animal_get_state", handlers.HandleAnimalGetState(gameService, client, sessionID))

		// Murder mystery
		client.On("mystery_start", handlers.HandleMysteryStart(gameService, client, sessionID, username))
		client.On("mystery_vote", handlers.HandleMysteryVote(gameService, client, sessionID, username))
		client.On("mystery_force_reveal", handlers.HandleMysteryForceReveal(gameService, client, sessionID, username))
		client.On("mystery_new_game", handlers.HandleMysteryNewGame(gameService, client, sessionID, username))
		client.On("mystery_get_state", handlers.HandleMysteryGetState(gameService, client, sessionID))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(registry, sioTyped, client, sessionID, username))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}
