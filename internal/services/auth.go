package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"faqchat-backend/internal/middleware"
	"faqchat-backend/internal/models"
)

// userStore is the slice of the user repository the authenticator needs.
type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthService struct {
	users      userStore
	sessions   SessionStore
	jwt        *middleware.JWTAuth
	sessionTTL time.Duration
}

func NewAuthService(users userStore, sessions SessionStore, jwt *middleware.JWTAuth, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		jwt:        jwt,
		sessionTTL: sessionTTL,
	}
}

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, *models.AuthTokens, error) {
	// Validate all fields at once
	fieldErrors := make(map[string]string)

	switch {
	case req.Username == "":
		fieldErrors["username"] = "Username is required"
	case !usernameRegex.MatchString(req.Username):
		fieldErrors["username"] = "Username must contain only letters, numbers, and underscores"
	}

	switch {
	case req.Email == "":
		fieldErrors["email"] = "Email is required"
	case !emailRegex.MatchString(req.Email):
		fieldErrors["email"] = "Invalid email address"
	}

	switch {
	case req.Password == "":
		fieldErrors["password"] = "Password is required"
	case len(req.Password) < 6:
		fieldErrors["password"] = "Password must be at least 6 characters long"
	case req.Password != req.ConfirmPassword:
		fieldErrors["confirm_password"] = "Passwords do not match"
	}

	if len(fieldErrors) > 0 {
		return nil, nil, &ValidationError{Fields: fieldErrors}
	}

	// Check uniqueness; the DB unique constraints are the backstop.
	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, nil, &ConflictError{Message: "Username already exists"}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, nil, &ConflictError{Message: "Email already exists"}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	// Hash password (bcrypt cost 12)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, *models.AuthTokens, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, &UnauthorizedError{Message: "Invalid username or password"}
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, &UnauthorizedError{Message: "Invalid username or password"}
	}

	tokens, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Logout invalidates the session. Logging out an already-dead token is not an
// error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// CurrentUser resolves a session token to the authenticated user id. The
// session middleware calls this for every protected request.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return uuid.Nil, &UnauthorizedError{Message: "Not logged in"}
		}
		return uuid.Nil, err
	}
	return userID, nil
}

func (s *AuthService) establishSession(ctx context.Context, user *models.User) (*models.AuthTokens, error) {
	sessionToken, err := generateToken(32)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, sessionToken, user.ID, s.sessionTTL); err != nil {
		return nil, err
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.AuthTokens{
		SessionToken: sessionToken,
		AccessToken:  accessToken,
		ExpiresIn:    900,
	}, nil
}

func generateToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
