package socketio_utils

import (
	"Maru/middleware"
	models "Maru/models/postgres"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// Function that verifies a socket.io client connection using JWT authentication.
// It extracts the session id from the JWT token and retrieves the associated
// display name from the database.
func VerifyUserConnection(client *socket.Socket, db *gorm.DB) (success bool, sessionID, username string) {
	// Checks if we have auth data in the connection
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		fmt.Println("No auth data provided in handshake!")
		client.Emit("error", gin.H{"error": "Authentication failed: missing auth data"})
		return false, "", ""
	}

	// Check if authorization token exists
	_, exists := authData["authorization"].(string)
	if !exists {
		fmt.Println("No authorization token provided in handshake!")
		client.Emit("error", gin.H{"error": "Authentication failed: missing authorization token"})
		return false, "", ""
	}

	// Decode JWT to get the user's session id
	sessionID, err := middleware.Socketio_JWT_decoder(authData)
	if err != nil {
		fmt.Println("Error decoding JWT:", err)
		client.Emit("error", gin.H{
			"error": "Authentication failed: invalid JWT. Remember to set it on the 'Authorization' field and with the 'Bearer ' prefix.",
		})
		return false, "", ""
	}

	// Fetch display name from database using the session id
	var user models.User
	result := db.Where("session_id = ?", sessionID).First(&user)
	if result.Error != nil {
		fmt.Println("Error fetching user from database:", result.Error)
		client.Emit("error", gin.H{"error": "Authentication failed: could not find user"})
		return false, "", ""
	}

	return true, sessionID, user.Username
}
