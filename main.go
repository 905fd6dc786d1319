package main

import (
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"Maru/config"
	_ "Maru/docs"
	"Maru/middleware"
	"Maru/routes"
	"Maru/services/dictionary"
	games_service "Maru/services/games"
	"Maru/services/games/animal"
	"Maru/services/games/horse"
	"Maru/services/games/jamo"
	"Maru/services/games/mystery"
	"Maru/services/redis"
	rooms_service "Maru/services/rooms"
	"Maru/services/socket_io"
	socketio_types "Maru/services/socket_io/types"
	"Maru/services/timer"
	"Maru/sync"
)

// @title Maru API
// @version 1.0
// @description Gin-Gonic server for the Maru party-game platform
// @BasePath /
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Println("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
			// Continue execution even if migration fails
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redis.CloseRedis(redisClient)

	// Room creation allowlist is optional; empty means open creation.
	var allowlist []string
	if raw := os.Getenv("ROOM_CREATOR_ALLOWLIST"); raw != "" {
		allowlist = strings.Split(raw, ",")
	}
	registry := rooms_service.NewRegistry(allowlist)
	timers := timer.NewManager()
	dict := dictionary.NewClient(os.Getenv("DICTIONARY_API_URL"), redisClient)
	syncManager := sync.NewSyncManager(redisClient, gormDB)

	sio := socketio_types.NewSocketServer()
	gameService := games_service.NewService(registry, timers, sio, syncManager)
	gameService.Register(horse.New())
	gameService.Register(jamo.New())
	gameService.Register(animal.New())
	gameService.Register(mystery.New())

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	(*socket_io.MySocketServer)(sio).Start(r, gormDB, registry, gameService, dict)

	routes.SetupRoutes(r, gormDB, redisClient, registry)

	// Configure port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
