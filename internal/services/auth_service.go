package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estoquehub/internal/models"
	"estoquehub/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 8 * time.Hour

const invalidCredentials = "invalid credentials"

// RegisterInput is the request schema for POST /auth/register.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginInput is the request schema for POST /auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is the public part of a user returned with a token.
type UserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// Identity is the authenticated caller extracted from a token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	validate   *validator.Validate
	now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   TokenTTL,
		validate:   validator.New(),
		now:        time.Now,
	}
}

// SetClock replaces the clock used when issuing tokens.
func (s *AuthService) SetClock(now func() time.Time) {
	s.now = now
}

// Register creates a user with a hashed password and returns a token for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := validateInput(s.validate, input, "name, email and password are required", map[string]string{
		"Name.min": "name must be at least 3 characters",
	}); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, NewDependencyError("failed to verify user", err)
	}
	if existing != nil {
		return nil, NewConflictError("a user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// The lookup above can race with a concurrent registration.
		if errors.Is(err, repositories.ErrUserConflict) {
			return nil, NewConflictError("a user with this email already exists")
		}
		return nil, NewDependencyError("failed to create user", err)
	}

	return s.issue(user)
}

// Login authenticates a user by email and password.
// Unknown email and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := validateInput(s.validate, input, "email and password are required", nil); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, NewCredentialsError(invalidCredentials)
		}
		return nil, NewDependencyError("failed to fetch user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, NewCredentialsError(invalidCredentials)
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token: token,
		User:  UserSummary{Name: user.Name, Email: user.Email},
	}, nil
}

// GenerateToken signs a token carrying the user's id and email.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	issuedAt := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     issuedAt.Add(s.tokenTTL).Unix(),
		"iat":     issuedAt.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning the identity it carries.
func (s *AuthService) ValidateToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		zap.S().Debugf("Token validation error: %v", err)
		return nil, NewAuthError("invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, NewAuthError("invalid token", nil)
	}
	if !claims.VerifyExpiresAt(jwt.TimeFunc().Unix(), true) {
		return nil, NewAuthError("invalid token", errors.New("token has no expiry"))
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, NewAuthError("invalid token", errors.New("token has no user_id"))
	}
	email, _ := claims["email"].(string)

	return &Identity{ID: userID, Email: email}, nil
}
