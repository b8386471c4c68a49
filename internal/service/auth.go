package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zentrixai8-sys/checklist-sub001/internal/cache"
	"github.com/zentrixai8-sys/checklist-sub001/internal/config"
	"github.com/zentrixai8-sys/checklist-sub001/internal/model"
	"github.com/zentrixai8-sys/checklist-sub001/internal/repository"
)

var (
	ErrUnknownIdentity = errors.New("unknown identity")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
)

// AuthService turns a username into an authenticated viewer. Identity is
// username-only: the master roles sheet decides whether the username exists
// and which role it carries. Tokens embed the resulting {identity, role}
// pair so downstream handlers never re-read ambient session state.
type AuthService struct {
	userRepo *repository.UserRepository
	store    cache.Store
	jwtCfg   config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, store cache.Store, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		store:    store,
		jwtCfg:   jwtCfg,
	}
}

type Claims struct {
	Identity  string     `json:"identity"`
	Role      model.Role `json:"role"`
	TokenType string     `json:"token_type"`
	jwt.RegisteredClaims
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	viewer, err := s.userRepo.GetViewer(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnknownIdentity
		}
		return nil, err
	}

	accessToken, err := s.generateToken(viewer, "access", s.jwtCfg.AccessExpiresIn)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateToken(viewer, "refresh", s.jwtCfg.RefreshExpiresIn)
	if err != nil {
		return nil, err
	}

	refreshKey := refreshTokenKey(viewer.Identity)
	if err := s.store.Set(ctx, refreshKey, []byte(refreshToken), s.jwtCfg.RefreshExpiresIn); err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtCfg.AccessExpiresIn.Seconds()),
		TokenType:    "Bearer",
		Viewer:       *viewer,
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}

	refreshKey := refreshTokenKey(claims.Identity)
	storedToken, err := s.store.Get(ctx, refreshKey)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if string(storedToken) != refreshToken {
		return nil, ErrInvalidToken
	}

	// Re-resolve the viewer so a role change in the sheet takes effect on
	// the next refresh, not only on a fresh login.
	viewer, err := s.userRepo.GetViewer(ctx, claims.Identity)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnknownIdentity
		}
		return nil, err
	}

	newAccessToken, err := s.generateToken(viewer, "access", s.jwtCfg.AccessExpiresIn)
	if err != nil {
		return nil, err
	}

	newRefreshToken, err := s.generateToken(viewer, "refresh", s.jwtCfg.RefreshExpiresIn)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, refreshKey, []byte(newRefreshToken), s.jwtCfg.RefreshExpiresIn); err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.jwtCfg.AccessExpiresIn.Seconds()),
		TokenType:    "Bearer",
		Viewer:       *viewer,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, identity string) error {
	return s.store.Delete(ctx, refreshTokenKey(identity))
}

func (s *AuthService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.validateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) generateToken(viewer *model.Viewer, tokenType string, expiresIn time.Duration) (string, error) {
	claims := Claims{
		Identity:  viewer.Identity,
		Role:      viewer.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   viewer.Identity,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

func (s *AuthService) validateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func refreshTokenKey(identity string) string {
	return fmt.Sprintf("refresh_token:%s", identity)
}
