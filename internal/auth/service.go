package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/hrdesk/hrdesk/internal/domain"
)

// Sentinel errors for the auth package.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserAlreadyExists  = errors.New("auth: user already exists")
	ErrUserNotFound       = errors.New("auth: user not found")
)

// argon2id parameters following OWASP recommendations.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// TokenRegistry tracks live refresh tokens by their jti so they can be
// revoked on logout and expire server-side.
type TokenRegistry interface {
	Register(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error
	Valid(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

// Service provides authentication operations.
type Service struct {
	userRepo   domain.UserRepository
	tokens     TokenRegistry
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService creates a new auth service.
func NewService(userRepo domain.UserRepository, tokens TokenRegistry, jwtSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		userRepo:   userRepo,
		tokens:     tokens,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates a new user with username/password. The password is hashed
// with argon2id before storage.
func (s *Service) Register(ctx context.Context, username, password, fullName, role string) (*domain.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("auth.Register: %w", ErrUserAlreadyExists)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent register can slip past the existence check above and
		// land on the unique index instead.
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("auth.Register: %w", ErrUserAlreadyExists)
		}
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	return user, nil
}

// Login validates username/password and returns the user plus access and
// refresh JWT tokens. The refresh token's jti is registered for later
// revocation.
func (s *Service) Login(ctx context.Context, username, password string) (user *domain.User, accessToken, refreshToken string, err error) {
	user, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	if !verifyPassword(password, user.PasswordHash) {
		return nil, "", "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	accessToken, err = IssueAccessToken(s.jwtSecret, user.ID, user.Role, s.accessTTL)
	if err != nil {
		return nil, "", "", fmt.Errorf("auth.Login: %w", err)
	}

	tokenID := uuid.New().String()
	refreshToken, err = IssueRefreshToken(s.jwtSecret, tokenID, user.ID, user.Role, s.refreshTTL)
	if err != nil {
		return nil, "", "", fmt.Errorf("auth.Login: %w", err)
	}

	if err := s.tokens.Register(ctx, tokenID, user.ID, s.refreshTTL); err != nil {
		return nil, "", "", fmt.Errorf("auth.Login: register refresh token: %w", err)
	}

	return user, accessToken, refreshToken, nil
}

// RefreshToken validates a refresh token against the registry and issues a
// new access token.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := ValidateToken(s.jwtSecret, refreshToken)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	if claims.TokenType != tokenTypeRefresh {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrInvalidToken)
	}

	live, err := s.tokens.Valid(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}
	if !live {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrInvalidToken)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: invalid user id: %w", err)
	}

	// Verify the user still exists and fetch the current role.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrUserNotFound)
	}

	newAccess, err := IssueAccessToken(s.jwtSecret, user.ID, user.Role, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	return newAccess, nil
}

// Logout revokes the refresh token so it can no longer mint access tokens.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := ValidateToken(s.jwtSecret, refreshToken)
	if err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}

	if claims.TokenType != tokenTypeRefresh {
		return fmt.Errorf("auth.Logout: %w", ErrInvalidToken)
	}

	if err := s.tokens.Revoke(ctx, claims.ID); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}

	return nil
}

// hashPassword generates an argon2id hash with a random salt.
// Format: hex(salt) + "$" + hex(hash)
func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

// verifyPassword checks a password against an argon2id hash.
func verifyPassword(password, encoded string) bool {
	// Split salt$hash
	var saltHex, hashHex string
	for i := range len(encoded) {
		if encoded[i] == '$' {
			saltHex = encoded[:i]
			hashHex = encoded[i+1:]
			break
		}
	}

	if saltHex == "" || hashHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	expectedHash, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	// Constant-time comparison to prevent timing attacks.
	if len(computed) != len(expectedHash) {
		return false
	}

	var diff byte
	for i := range computed {
		diff |= computed[i] ^ expectedHash[i]
	}

	return diff == 0
}
