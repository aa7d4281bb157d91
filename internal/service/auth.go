package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/repository"
)

// AuthService handles token issuance and rotation. Refresh tokens are
// long-lived JWTs whose SHA-256 hash is stored on the user row, so each
// user has exactly one valid refresh token at a time. A login or refresh
// overwrites the stored hash and invalidates the previous token.
type AuthService struct {
	userRepo repository.UserRepository
	config   *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		config:   cfg,
	}
}

// GenerateTokenPair issues a new access/refresh pair and persists the
// refresh token hash, replacing whatever was stored before.
func (s *AuthService) GenerateTokenPair(ctx context.Context, userID int64) (*model.TokenPair, error) {
	accessToken, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	hash := s.hashToken(refreshToken)
	if err := s.userRepo.SetRefreshTokenHash(ctx, userID, &hash); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.config.AccessTokenMaxAge,
	}, nil
}

// RefreshTokens validates the presented refresh token and rotates a new
// pair. Every failure mode (malformed, expired, unknown user, hash
// mismatch after a newer login) collapses into ErrRefreshTokenInvalid so
// callers can't distinguish them.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshTokenRaw string) (*model.TokenPair, int64, error) {
	userID, err := s.parseToken(refreshTokenRaw)
	if err != nil {
		return nil, 0, model.ErrRefreshTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, model.ErrRefreshTokenInvalid
	}

	// The token must match the single stored credential. A mismatch means
	// a newer login or refresh has already superseded it.
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != s.hashToken(refreshTokenRaw) {
		return nil, 0, model.ErrRefreshTokenInvalid
	}

	pair, err := s.GenerateTokenPair(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return pair, userID, nil
}

// Revoke clears the stored refresh token hash (logout). The access token
// stays valid until it expires; only the refresh credential is destroyed.
func (s *AuthService) Revoke(ctx context.Context, userID int64) error {
	return s.userRepo.SetRefreshTokenHash(ctx, userID, nil)
}

// VerifyAccessToken validates an access token and returns the user ID.
func (s *AuthService) VerifyAccessToken(tokenString string) (int64, error) {
	return s.parseToken(tokenString)
}

func (s *AuthService) generateAccessToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateRefreshToken mints the long-lived token. The jti claim makes
// back-to-back issues for the same user distinct tokens.
func (s *AuthService) generateRefreshToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.New().String(),
		"exp":     time.Now().Add(time.Duration(s.config.RefreshTokenMaxAge) * time.Second).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// parseToken verifies signature and expiry and extracts the user_id claim.
func (s *AuthService) parseToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	// Numeric JSON claims decode as float64
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("missing user_id claim")
	}

	return int64(rawID), nil
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
