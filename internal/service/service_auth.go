// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// authService is the concrete implementation of AuthService.
// It handles account registration, credential verification and the JWT
// lifecycle, using a UserRepository for persistence and bcrypt for password
// hashing.
type authService struct {
	userRepository store.UserRepository

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	tokenIssuer string

	tokenDuration time.Duration

	newID func() string
	now   func() time.Time

	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given UserRepository
// and populated with token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, cfg *config.DevServerConfig, log *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		newID:          utils.NewUUIDGenerator().Generate,
		now:            func() time.Time { return time.Now().UTC() },
		logger:         log,
	}
}

// RegisterUser creates a new account.
//
// The email is trimmed and lowercased; the password is stored as a bcrypt
// hash. Returns ErrInvalidDataProvided for a malformed email or an empty
// password, and a wrapped store.ErrEmailAlreadyExists when the email is taken.
func (a *authService) RegisterUser(ctx context.Context, req models.RegisterRequest) (models.Account, error) {
	log := logger.FromContext(ctx)

	email := normalizeEmail(req.Email)
	if !strings.Contains(email, "@") || req.Password == "" {
		log.Error().Str("email", email).Msg("invalid user data provided")
		return models.Account{}, ErrInvalidDataProvided
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Str("func", "*authService.RegisterUser").Msg("password hashing failed")
		return models.Account{}, fmt.Errorf("password hashing failed: %w", err)
	}

	now := a.now()
	account, err := a.userRepository.CreateUser(ctx, models.Account{
		ID:           a.newID(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		log.Err(err).Str("email", email).Msg("user creation ended with error")
		return models.Account{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return account, nil
}

// Login authenticates an existing account.
//
// Returns the account or:
//   - ErrInvalidDataProvided if the email or password is empty.
//   - A wrapped store.ErrNoUserWasFound for an unknown email.
//   - ErrWrongPassword if the password does not match.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.Account, error) {
	log := logger.FromContext(ctx)

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		log.Error().Str("email", email).Msg("invalid user data provided")
		return models.Account{}, ErrInvalidDataProvided
	}

	account, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return models.Account{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Err(err).Str("id", account.ID).Msg("stored password hash is unusable")
		}
		log.Warn().Str("id", account.ID).Msg("wrong password")
		return models.Account{}, ErrWrongPassword
	}

	return account, nil
}

// CreateToken issues a signed JWT for the account.
func (a *authService) CreateToken(ctx context.Context, account models.Account) (string, error) {
	token, _, err := utils.GenerateJWTToken(a.tokenIssuer, account.ID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken verifies the signature, expiry and issuer of token. Any
// failure is normalised to ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, token string) (string, error) {
	userID, err := utils.ValidateAndParseJWTToken(token, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return "", ErrTokenIsExpiredOrInvalid
	}

	return userID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
