package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"Maru/controllers"
	"Maru/middleware"
	"Maru/services/redis"
	rooms_service "Maru/services/rooms"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient,
	registry *rooms_service.Registry) {

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)
	api.GET("/version", controllers.Version)
	api.GET("/rooms", controllers.GetRoomList(registry))
	api.GET("/ranking", controllers.GetRanking(redisClient))

	api.POST("/login", controllers.Login(db))
	api.POST("/signup", controllers.SignUp(db))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)
		authentication.GET("/me", controllers.Me(db))
	}
}
