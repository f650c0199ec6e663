package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"kiranapos/internal/caching"
	"kiranapos/internal/config"
	"kiranapos/internal/models"
	"kiranapos/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// TokenClaims carries the account scoping for every authenticated request.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (*models.TokenResponse, error)
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

type authService struct {
	userRepo repositories.UserRepository
	cacheSvc caching.CacheService
	cfg      config.JWTConfig
}

func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, cfg config.JWTConfig) AuthService {
	return &authService{userRepo: userRepo, cacheSvc: cacheSvc, cfg: cfg}
}

func (s *authService) Signup(ctx context.Context, email, password, name string) (*models.TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("name is required")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		AccountID:    uuid.New(),
		Email:        email,
		PasswordHash: string(hashed),
		Name:         strings.TrimSpace(name),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, user.ID, user.AccountID)
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, user.ID, user.AccountID)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	tokenHash := s.hashToken(refreshToken)
	cacheKey := fmt.Sprintf("kiranapos:refresh_token:%s", tokenHash)

	tokenData, err := s.cacheSvc.GetString(ctx, cacheKey)
	if err != nil || tokenData == "" {
		return nil, ErrInvalidToken
	}

	parts := strings.Split(tokenData, ":")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}
	userIDStr, accountIDStr, expiryStr := parts[0], parts[1], parts[2]

	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil || time.Now().Unix() > expiry {
		s.cacheSvc.Delete(ctx, cacheKey)
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidToken
	}
	accountID, err := uuid.Parse(accountIDStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Single use: rotate on every refresh
	if err := s.cacheSvc.Delete(ctx, cacheKey); err != nil {
		log.Printf("failed to delete used refresh token: %v", err)
	}

	return s.generateTokens(ctx, userID, accountID)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := s.hashToken(refreshToken)
	cacheKey := fmt.Sprintf("kiranapos:refresh_token:%s", tokenHash)
	return s.cacheSvc.Delete(ctx, cacheKey)
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	jwtToken, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := jwtToken.Claims.(*TokenClaims)
	if !ok || !jwtToken.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) generateTokens(ctx context.Context, userID, accountID uuid.UUID) (*models.TokenResponse, error) {
	now := time.Now()

	claims := TokenClaims{
		UserID:    userID.String(),
		AccountID: accountID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken := s.generateSecureToken()
	refreshTokenHash := s.hashToken(refreshToken)

	refreshData := fmt.Sprintf("%s:%s:%d", userID.String(), accountID.String(), now.Add(s.cfg.RefreshTTL).Unix())
	cacheKey := fmt.Sprintf("kiranapos:refresh_token:%s", refreshTokenHash)
	if err := s.cacheSvc.SetString(ctx, cacheKey, refreshData, s.cfg.RefreshTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.cfg.AccessTTL.Seconds()),
	}, nil
}

func (s *authService) generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		return uuid.NewString()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func (s *authService) hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
