package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"earnwallet/internal/middleware"
	"earnwallet/internal/models"
	"earnwallet/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	userService *services.UserService
	logger      zerolog.Logger
	jwtSecret   string
	devAuth     bool
}

func NewAuthHandler(userService *services.UserService, logger zerolog.Logger, jwtSecret string, devAuth bool) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
		jwtSecret:   jwtSecret,
		devAuth:     devAuth,
	}
}

// GetCurrentUser merges the identity-provider claims into the user record
// and returns it. The client calls this once per session, so every
// authenticated caller has a ledger account before touching money.
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetIdentity(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	user, err := h.userService.UpsertFromIdentity(r.Context(), &models.UpsertUser{
		ID:              claims.Subject,
		Email:           claims.Email,
		FirstName:       claims.FirstName,
		LastName:        claims.LastName,
		ProfileImageURL: claims.ProfileImageURL,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

type devTokenRequest struct {
	Email     string  `json:"email"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// DevToken mints an identity token for a fresh identity. It stands in for
// the identity provider during local development and is only routed when
// DEV_AUTH is enabled.
func (h *AuthHandler) DevToken(w http.ResponseWriter, r *http.Request) {
	var req devTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	subject := uuid.NewString()
	if req.Email == "" {
		req.Email = subject + "@dev.local"
	}

	now := time.Now()
	claims := &middleware.Claims{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		h.logger.Error().Err(err).Msg("Error generating dev token")
		respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to generate token")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"token":   tokenString,
		"user_id": subject,
	})
}
