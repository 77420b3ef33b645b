package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// SessionCookieName is the cookie the browser flow carries the session
// token in. API clients send the same token (or a JWT) as a Bearer header.
const SessionCookieName = "session"

type JWTAuth struct {
	Secret []byte
}

func NewJWTAuth(secret string) *JWTAuth {
	return &JWTAuth{Secret: []byte(secret)}
}

// GenerateAccessToken creates a JWT with 15 minute expiry
func (j *JWTAuth) GenerateAccessToken(userID uuid.UUID, username string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID.String(),
		"username": username,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// ParseUserID verifies a JWT and extracts the user id claim.
func (j *JWTAuth) ParseUserID(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.Secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	return uuid.Parse(userIDStr)
}

// SessionLookup resolves an opaque session token to a user id.
type SessionLookup interface {
	CurrentUser(ctx context.Context, token string) (uuid.UUID, error)
}

// SessionAuth gates protected routes. It accepts the session cookie, a
// Bearer JWT access token, or a Bearer session token, in that order.
type SessionAuth struct {
	sessions SessionLookup
	jwt      *JWTAuth
}

func NewSessionAuth(sessions SessionLookup, jwt *JWTAuth) *SessionAuth {
	return &SessionAuth{sessions: sessions, jwt: jwt}
}

func (s *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			if userID, err := s.sessions.CurrentUser(r.Context(), cookie.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
				return
			}
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format", r)
				return
			}
			tokenStr := parts[1]

			if userID, err := s.jwt.ParseUserID(tokenStr); err == nil {
				next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
				return
			}

			if userID, err := s.sessions.CurrentUser(r.Context(), tokenStr); err == nil {
				next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
				return
			}
		}

		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not logged in", r)
	})
}

func withUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID extracts user_id from request context
func GetUserID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(UserIDKey).(uuid.UUID)
	return id
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": chimiddleware.GetReqID(r.Context()),
		},
	})
}
