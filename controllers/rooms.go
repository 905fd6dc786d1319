package controllers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"Maru/services/redis"
	rooms_service "Maru/services/rooms"
)

// @Summary Liveness probe
// @Tags meta
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// @Summary Deployed version
// @Description Returns the build stamp baked in at deploy time.
// @Tags meta
// @Produce json
// @Success 200 {object} object{version=string}
// @Router /version [get]
func Version(c *gin.Context) {
	version := os.Getenv("DEPLOY_VERSION")
	if version == "" {
		version = "dev"
	}
	c.JSON(http.StatusOK, gin.H{"version": version})
}

// @Summary Lists open rooms
// @Description The REST counterpart of the room-list socket broadcast, used by clients before the socket is up.
// @Tags rooms
// @Produce json
// @Success 200 {object} object{rooms=[]object{room_id=string,room_name=string,game_type=string,player_count=integer}}
// @Router /rooms [get]
func GetRoomList(registry *rooms_service.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": registry.List()})
	}
}

// @Summary Win leaderboard
// @Description Top players by accumulated game wins.
// @Tags rooms
// @Produce json
// @Success 200 {object} object{ranking=[]object{username=string,wins=integer}}
// @Failure 500 {object} object{error=string}
// @Router /ranking [get]
func GetRanking(redisClient *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ranking, err := redisClient.TopRanking(20)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load ranking"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ranking": ranking})
	}
}
