// Package service implements admin authentication. There are no user
// accounts; access is granted to the configured allow-list of admin
// emails sharing one bcrypt-hashed password.
package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"gamedrop_backend/platform/apperr"
	"gamedrop_backend/platform/config"
	"gamedrop_backend/platform/logger"
)

const roleAdmin = "admin"

// TokenPair carries an issued access token.
type TokenPair struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Service issues access tokens for admins.
type Service struct {
	cfg config.AuthConfig
	log *logger.Logger
}

// New creates a new auth service.
func New(cfg config.AuthConfig, log *logger.Logger) *Service {
	return &Service{cfg: cfg, log: log}
}

// Login checks the credentials and returns an access token. The same
// generic error covers unknown emails and wrong passwords.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	if !s.cfg.IsAdminEmail(email) {
		// Burn a bcrypt comparison so the allow-list check is not
		// observable through response timing.
		_ = bcrypt.CompareHashAndPassword([]byte(s.cfg.GetAdminPasswordHash()), []byte(password))
		s.log.AuthEvent("login", email, false, "email not allowed")
		return TokenPair{}, apperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.GetAdminPasswordHash()), []byte(password)); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return TokenPair{}, apperr.Unauthorized("invalid credentials")
	}

	now := time.Now()
	expiresAt := now.Add(s.cfg.GetAccessTokenTTL())
	claims := jwt.MapClaims{
		"sub":  email,
		"role": roleAdmin,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.KindInternal, "sign access token", err)
	}

	s.log.AuthEvent("login", email, true, "")
	return TokenPair{AccessToken: signed, ExpiresAt: expiresAt}, nil
}
