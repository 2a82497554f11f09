package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Service issues and verifies the bearer tokens used by the API. Access and
// refresh tokens are signed with separate secrets so a leaked access token
// cannot mint new sessions.
type Service struct {
	username      string
	password      string
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewService(username, password, accessSecret, refreshSecret string) *Service {
	return &Service{
		username:      username,
		password:      password,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login checks the credentials against the single configured user and returns
// a fresh token pair.
func (s *Service) Login(username, password string) (TokenPair, error) {
	if username != s.username || password != s.password {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.issuePair(username)
}

// Refresh verifies the refresh token and mints a new pair, rotating the
// refresh token as well.
func (s *Service) Refresh(refreshToken string) (TokenPair, error) {
	username, err := s.verify(refreshToken, s.refreshSecret)
	if err != nil {
		return TokenPair{}, err
	}
	return s.issuePair(username)
}

// VerifyAccess returns the username encoded in a valid access token.
func (s *Service) VerifyAccess(accessToken string) (string, error) {
	return s.verify(accessToken, s.accessSecret)
}

func (s *Service) issuePair(username string) (TokenPair, error) {
	access, err := s.sign(username, s.accessSecret, accessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(username, s.refreshSecret, refreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) sign(username string, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) verify(tokenString string, secret []byte) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
