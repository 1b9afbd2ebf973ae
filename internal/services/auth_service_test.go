package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"estoquehub/internal/models"
	"estoquehub/internal/repositories"
	"estoquehub/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if user.ID == "" {
		user.ID = "user-123"
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

const (
	testJWTSecret        = "test_jwt_secret"
	tokenLifetimeSeconds = float64(8 * 60 * 60)
)

func assertKind(t *testing.T, err error, kind services.Kind, message string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, services.KindOf(err), err.Error())
	var svcErr *services.Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, message, svcErr.Message)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	input := services.RegisterInput{Name: "Ana Silva", Email: "ana@x.com", Password: "secret1"}

	mockRepo.On("GetByEmail", ctx, "ana@x.com").Return(nil, repositories.ErrUserNotFound).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "Ana Silva" && u.Email == "ana@x.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(nil).Once()

	result, err := authService.Register(ctx, input)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, services.UserSummary{Name: "Ana Silva", Email: "ana@x.com"}, result.User)
	mockRepo.AssertExpectations(t)

	identity, err := authService.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.ID)
	assert.Equal(t, "ana@x.com", identity.Email)

	// Email already registered
	mockRepo.On("GetByEmail", ctx, "ana@x.com").Return(&models.User{ID: "user-123"}, nil).Once()
	_, err = authService.Register(ctx, input)
	assertKind(t, err, services.KindConflict, "a user with this email already exists")
	mockRepo.AssertExpectations(t)

	// Concurrent registration caught by the unique index
	mockRepo.On("GetByEmail", ctx, "ana@x.com").Return(nil, repositories.ErrUserNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(repositories.ErrUserConflict).Once()
	_, err = authService.Register(ctx, input)
	assertKind(t, err, services.KindConflict, "a user with this email already exists")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret)

	tests := []struct {
		name    string
		input   services.RegisterInput
		message string
	}{
		{"missing name", services.RegisterInput{Email: "a@x.com", Password: "p"}, "name, email and password are required"},
		{"missing email", services.RegisterInput{Name: "Ana", Password: "p"}, "name, email and password are required"},
		{"missing password", services.RegisterInput{Name: "Ana", Email: "a@x.com"}, "name, email and password are required"},
		{"short name", services.RegisterInput{Name: "An", Email: "a@x.com", Password: "p"}, "name must be at least 3 characters"},
		{"missing wins over short", services.RegisterInput{Name: "An", Email: "a@x.com"}, "name, email and password are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.Register(context.Background(), tt.input)
			assertKind(t, err, services.KindValidation, tt.message)
		})
	}
}

func TestAuthService_RegisterLookupFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	mockRepo.On("GetByEmail", ctx, "ana@x.com").Return(nil, fmt.Errorf("connection refused")).Once()
	_, err := authService.Register(ctx, services.RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "p"})
	assertKind(t, err, services.KindDependency, "failed to verify user")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           "user-123",
		Name:         "Ana Silva",
		Email:        "ana@x.com",
		PasswordHash: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByEmail", ctx, "ana@x.com").Return(user, nil).Once()
	result, err := authService.Login(ctx, services.LoginInput{Email: "ana@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", result.User.Name)

	parsedToken, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "ana@x.com", claims["email"])
	assert.InDelta(t, tokenLifetimeSeconds, claims["exp"].(float64)-claims["iat"].(float64), 1)

	// Wrong password
	mockRepo.On("GetByEmail", ctx, "ana@x.com").Return(user, nil).Once()
	_, wrongPassErr := authService.Login(ctx, services.LoginInput{Email: "ana@x.com", Password: "wrong"})
	assertKind(t, wrongPassErr, services.KindCredentials, "invalid credentials")

	// Unknown email gets the identical error
	mockRepo.On("GetByEmail", ctx, "bob@x.com").Return(nil, repositories.ErrUserNotFound).Once()
	_, unknownErr := authService.Login(ctx, services.LoginInput{Email: "bob@x.com", Password: "secret1"})
	assertKind(t, unknownErr, services.KindCredentials, "invalid credentials")
	assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())

	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginValidation(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret)

	_, err := authService.Login(context.Background(), services.LoginInput{Email: "ana@x.com"})
	assertKind(t, err, services.KindValidation, "email and password are required")

	_, err = authService.Login(context.Background(), services.LoginInput{Password: "secret1"})
	assertKind(t, err, services.KindValidation, "email and password are required")
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret)
	user := &models.User{ID: "user-123", Email: "ana@x.com"}

	t.Run("Valid", func(t *testing.T) {
		token, err := authService.GenerateToken(user)
		require.NoError(t, err)
		identity, err := authService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, &services.Identity{ID: "user-123", Email: "ana@x.com"}, identity)
	})

	t.Run("StillValidJustBeforeEightHours", func(t *testing.T) {
		issuer := services.NewAuthService(new(MockUserRepository), testJWTSecret)
		issuer.SetClock(func() time.Time { return time.Now().Add(-7*time.Hour - 59*time.Minute) })
		token, err := issuer.GenerateToken(user)
		require.NoError(t, err)
		_, err = authService.ValidateToken(token)
		assert.NoError(t, err)
	})

	t.Run("ExpiredAfterEightHours", func(t *testing.T) {
		issuer := services.NewAuthService(new(MockUserRepository), testJWTSecret)
		issuer.SetClock(func() time.Time { return time.Now().Add(-8*time.Hour - time.Minute) })
		token, err := issuer.GenerateToken(user)
		require.NoError(t, err)
		_, err = authService.ValidateToken(token)
		assertKind(t, err, services.KindAuth, "invalid token")
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := services.NewAuthService(new(MockUserRepository), "another_secret")
		token, err := other.GenerateToken(user)
		require.NoError(t, err)
		_, err = authService.ValidateToken(token)
		assertKind(t, err, services.KindAuth, "invalid token")
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := authService.ValidateToken("invalid.token.string")
		assertKind(t, err, services.KindAuth, "invalid token")

		_, err = authService.ValidateToken("")
		assertKind(t, err, services.KindAuth, "invalid token")
	})

	t.Run("NoExpiry", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "user-123"})
		tokenString, _ := token.SignedString([]byte(testJWTSecret))
		_, err := authService.ValidateToken(tokenString)
		assertKind(t, err, services.KindAuth, "invalid token")
	})

	t.Run("NoUserID", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"email": "ana@x.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		tokenString, _ := token.SignedString([]byte(testJWTSecret))
		_, err := authService.ValidateToken(tokenString)
		assertKind(t, err, services.KindAuth, "invalid token")
	})

	t.Run("NoneAlgorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"user_id": "user-123",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		tokenString, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		_, err := authService.ValidateToken(tokenString)
		assertKind(t, err, services.KindAuth, "invalid token")
	})
}
