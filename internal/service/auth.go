package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shopsmart-app/backend/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// TokenClaims are the JWT claims carried by a session token.
type TokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

// AuthService is the identity provider: it owns the credentials table and
// issues session tokens. The user profile document lives in UserService; this
// split keeps "delete the account" a distinct final step of the deletion
// cascade.
type AuthService struct {
	db        *gorm.DB
	users     IUserService
	jwtSecret string
	tokenTTL  time.Duration
}

var _ IAuthService = (*AuthService)(nil)

// NewAuthService creates a new AuthService instance.
func NewAuthService(db *gorm.DB, users IUserService, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  24 * time.Hour,
	}
}

// Register creates the identity account and then mirrors it into a user
// document.
func (s *AuthService) Register(ctx context.Context, email, password, username string) (*models.User, error) {
	var existing models.Credential
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	cred := models.Credential{
		UserID:       uuid.New(),
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&cred).Error; err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	user := &models.User{
		ID:       cred.UserID,
		Username: &username,
		Email:    &email,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("account registered", "user_id", cred.UserID)
	return user, nil
}

// SignIn verifies the password and returns a session token plus the mirrored
// user document.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *models.User, error) {
	var cred models.Credential
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&cred).Error; err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUser(ctx, cred.UserID)
	if err != nil {
		return "", nil, err
	}

	username := ""
	if user.Username != nil {
		username = *user.Username
	}
	token, err := s.GenerateToken(cred.UserID, username)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GenerateToken issues a signed session token for the user.
func (s *AuthService) GenerateToken(userID uuid.UUID, username string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DeleteCredentials removes the identity account. The account-deletion
// cascade calls this last, since afterwards the session can no longer
// authenticate.
func (s *AuthService) DeleteCredentials(ctx context.Context, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Credential{}, "user_id = ?", userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete credentials: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	slog.Info("credentials deleted", "user_id", userID)
	return nil
}
