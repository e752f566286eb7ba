package controllers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/archivar1/Hack-ITMO-2025/utils"
)

// AuthController exchanges the shared front-end secret for a per-chat JWT.
type AuthController struct {
	BotSecret string
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthController(botSecret, jwtSecret string, ttl time.Duration) *AuthController {
	return &AuthController{BotSecret: botSecret, JWTSecret: jwtSecret, TokenTTL: ttl}
}

type tokenInput struct {
	Secret string `json:"secret" binding:"required"`
	ChatID string `json:"chat_id" binding:"required"`
}

// POST /auth/token  { "secret": "...", "chat_id": "12345" }
func (ac *AuthController) IssueToken(c *gin.Context) {
	var input tokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if subtle.ConstantTimeCompare([]byte(input.Secret), []byte(ac.BotSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret"})
		return
	}
	if strings.TrimSpace(input.ChatID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id must not be empty"})
		return
	}

	token, err := utils.GenerateJWT(strings.TrimSpace(input.ChatID), ac.JWTSecret, ac.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
