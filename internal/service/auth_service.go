package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/boxorder-next/internal/config"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenHours = 12
	tokenIssuer       = "boxorder"
)

// AuthService 后台账号登录与 bearer token 校验，代理人与店长共用
type AuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
	now       func() time.Time
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository) *AuthService {
	return &AuthService{cfg: cfg, adminRepo: adminRepo, now: time.Now}
}

// HashPassword bcrypt 哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// AccountClaims token 载荷，Subject 为账号 ID
type AccountClaims struct {
	Role    string `json:"role"`
	Version uint64 `json:"ver"`
	jwt.RegisteredClaims
}

// Login 校验用户名密码并签发 token，同时记录最后登录时间
func (s *AuthService) Login(username, password string) (*models.Admin, string, time.Time, error) {
	admin, err := s.adminRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issueToken(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	loginAt := s.now()
	admin.LastLoginAt = &loginAt
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, token, expiresAt, nil
}

// Authenticate 解析 token 并加载账号；token_version 不一致视为已吊销
func (s *AuthService) Authenticate(tokenString string) (*models.Admin, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	adminID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || adminID == 0 {
		return nil, ErrTokenInvalid
	}
	admin, err := s.adminRepo.GetByID(uint(adminID))
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrNotFound
	}
	if admin.TokenVersion != claims.Version {
		return nil, ErrTokenRevoked
	}
	return admin, nil
}

func (s *AuthService) tokenTTL() time.Duration {
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = defaultTokenHours
	}
	return time.Duration(hours) * time.Hour
}

func (s *AuthService) issueToken(admin *models.Admin) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL())
	claims := AccountClaims{
		Role:    admin.Role,
		Version: admin.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(admin.ID), 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *AuthService) parseToken(tokenString string) (*AccountClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	claims := &AccountClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: expired", ErrTokenInvalid)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
