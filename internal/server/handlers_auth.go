package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/models"
	"github.com/vortexhq/vortex/internal/services/session"
)

// --- JWT helpers ---

// signJWT creates a signed HMAC-SHA256 JWT for the given account.
func signJWT(account *models.Account, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   account.UserID,
		"email": account.Email,
		"role":  account.Role,
		"iss":   "vortex-server",
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return token, claims, nil
}

// accountResponse builds a response map for an account.
func accountResponse(account *models.Account) map[string]interface{} {
	return map[string]interface{}{
		"user_id": account.UserID,
		"email":   account.Email,
		"role":    account.Role,
	}
}

// --- Auth handlers ---

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleAuthRegister handles POST /api/auth/register — create an account
// with its provisioned profile and seeded wallet, returning a JWT.
func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	account, err := s.app.SessionService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrAccountExists) {
			WriteError(w, http.StatusConflict, err.Error())
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := signJWT(account, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign JWT")
		WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"token": token,
			"user":  accountResponse(account),
		},
	})
}

// handleAuthLogin handles POST /api/auth/login — verify credentials and
// return a JWT. Unknown email and wrong password produce the same 401.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	account, err := s.app.SessionService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("Login failed")
		WriteError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := signJWT(account, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign JWT")
		WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"token": token,
			"user":  accountResponse(account),
		},
	})
}

// handleAuthLogout handles POST /api/auth/logout — publish the sign-out
// so live subscriptions tear down. Tokens are stateless; clients drop
// theirs on logout.
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := s.app.SessionService.Logout(r.Context(), uc.UserID); err != nil {
		s.logger.Error().Err(err).Str("user_id", uc.UserID).Msg("Logout failed")
		WriteError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// handleAuthValidate handles POST /api/auth/validate — validate a JWT.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		WriteError(w, http.StatusUnauthorized, "missing or invalid Authorization header")
		return
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := validateJWT(tokenString, []byte(s.app.Config.Auth.JWTSecret))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		WriteError(w, http.StatusUnauthorized, "invalid token claims")
		return
	}

	account, err := s.app.Storage.AccountStore().GetAccount(r.Context(), sub)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"user": accountResponse(account),
		},
	})
}
