package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyzr/sequences/cmd/sequences/auth"
	"github.com/lyzr/sequences/cmd/sequences/models"
)

// AuthHandler issues bearer tokens
type AuthHandler struct {
	tokens *auth.TokenManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		tokens: tokens,
	}
}

// IssueToken issues a fresh bearer token
// POST /auth/token
func (h *AuthHandler) IssueToken(c echo.Context) error {
	token, err := h.tokens.Issue()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
