package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsnorth/secchecklist/internal/checklist/domain"
	"github.com/opsnorth/secchecklist/internal/checklist/store"
	"github.com/opsnorth/secchecklist/pkg/cryptox"
	"github.com/opsnorth/secchecklist/pkg/jwtx"
	"github.com/opsnorth/secchecklist/pkg/slogx"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmailTaken       = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Callers must never be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AccountService struct {
	Store  store.Store
	Tokens *jwtx.Signer
}

// Register creates an account and returns a fresh session token for it.
// The password and confirmation must match before anything is persisted.
func (s *AccountService) Register(ctx context.Context, email, password, confirm string) (string, error) {
	log := slogx.FromContext(ctx)

	if password != confirm {
		return "", ErrPasswordMismatch
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", "err", err)
		return "", fmt.Errorf("hash password: %w", err)
	}

	err = s.Store.Accounts().Create(ctx, domain.Account{Email: email, PasswordHash: hash})
	if errors.Is(err, store.ErrAlreadyExists) {
		return "", ErrEmailTaken
	}
	if err != nil {
		return "", fmt.Errorf("create account: %w", err)
	}

	log.Info("account registered", "email", email)
	return s.Tokens.Issue(email)
}

// Authenticate verifies the credentials and returns a fresh session token.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (string, error) {
	acct, err := s.Store.Accounts().GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("load account: %w", err)
	}

	if err := cryptox.VerifyPassword(password, acct.PasswordHash); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.Tokens.Issue(email)
}
