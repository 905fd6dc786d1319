package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"Maru/middleware"
	models "Maru/models/postgres"
)

// @Summary Registers a new player identity
// @Description Creates a user with a fresh session id. The display name must be unique.
// @Tags users
// @Produce json
// @Param username formData string true "Display name"
// @Param password formData string true "Password"
// @Success 200 {object} object{session_id=string}
// @Failure 400 {object} object{error=string}
// @Router /signup [post]
func SignUp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		//Minimum input sanitizing
		if strings.Trim(username, " ") == "" || strings.Trim(password, " ") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
			return
		}

		user := models.User{
			SessionID:    uuid.NewString(),
			Username:     username,
			PasswordHash: string(hash),
			MemberSince:  time.Now(),
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"session_id": user.SessionID})
	}
}

// @Summary Logs a player in
// @Description Verifies credentials and returns the JWT the socket handshake expects.
// @Tags users
// @Produce json
// @Param username formData string true "Display name"
// @Param password formData string true "Password"
// @Success 200 {object} object{token=string,session_id=string,username=string}
// @Failure 401 {object} object{error=string}
// @Router /login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		username := c.PostForm("username")
		password := c.PostForm("password")

		//Minimum input sanitizing
		if strings.Trim(username, " ") == "" || strings.Trim(password, " ") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		var user models.User
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password!"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password!"})
			return
		}

		token, err := middleware.GenerateToken(user.SessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token"})
			return
		}

		session.Set(middleware.Userkey, user.SessionID)
		if err := session.Save(); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No session!"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"session_id": user.SessionID,
			"username":   user.Username,
		})
	}
}

// @Summary Logs the player out
// @Description Deletes the server-side session.
// @Tags users
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/logout [delete]
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get(middleware.Userkey)
	// There is no session for the user, won't delete nothing
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}

	session.Delete(middleware.Userkey)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Returns the authenticated player
// @Description Resolves the bearer token to the stored identity.
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{session_id=string,username=string,member_since=string}
// @Failure 401 {object} object{error=string}
// @Router /auth/me [get]
// @Security ApiKeyAuth
func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
			return
		}

		var user models.User
		if err := db.Where("session_id = ?", sessionID).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"session_id":   user.SessionID,
			"username":     user.Username,
			"member_since": user.MemberSince,
		})
	}
}
