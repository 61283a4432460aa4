// Package services contains the server-side business logic. This file
// implements PresenceService, the engine behind the seven fingr
// operations: register, login, logoff, bump, finger, list and check.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/fingr/internal/common"
	"github.com/dmitrijs2005/fingr/internal/server/config"
	"github.com/dmitrijs2005/fingr/internal/server/models"
	"github.com/dmitrijs2005/fingr/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fingr/internal/syncx"
	"github.com/dmitrijs2005/fingr/internal/timex"
)

// PresenceService owns the write path to all three stores. Operations on
// one username are serialized through a keyed mutex; operations on
// different usernames never coordinate. The clock is injected so expiry
// logic is deterministic under test.
type PresenceService struct {
	repos repomanager.RepositoryManager
	clock timex.Clock
	locks *syncx.KeyedMutex

	registration    config.RegistrationMode
	registrationKey string
	sessionDuration time.Duration

	// dummyHash equalizes credential verification for unknown usernames,
	// so the caller cannot distinguish a missing account from a wrong key.
	dummyHash []byte
}

func NewPresenceService(repos repomanager.RepositoryManager, cfg *config.Config, clock timex.Clock) (*PresenceService, error) {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("generating dummy hash: %w", err)
	}

	return &PresenceService{
		repos:           repos,
		clock:           clock,
		locks:           syncx.NewKeyedMutex(0),
		registration:    cfg.Registration,
		registrationKey: cfg.RegistrationKey,
		sessionDuration: cfg.SessionDuration,
		dummyHash:       dummyHash,
	}, nil
}

// storeErr marks an unexpected storage failure as request-fatal without
// killing the process.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
}

// Register validates the registration policy and creates an account with
// a freshly generated auth key. The plaintext key is returned exactly
// once; only its bcrypt hash is stored.
func (s *PresenceService) Register(ctx context.Context, username, suppliedRegKey string) (string, error) {
	switch s.registration {
	case config.RegistrationClosed:
		return "", common.ErrRegistrationClosed
	case config.RegistrationKeyed:
		if subtle.ConstantTimeCompare([]byte(suppliedRegKey), []byte(s.registrationKey)) != 1 {
			return "", common.ErrInvalidRegistrationKey
		}
	}

	key := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing auth key: %w", err)
	}

	_, err = s.repos.Accounts().Create(ctx, &models.Account{Username: username, KeyHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return "", common.ErrUsernameTaken
		}
		return "", storeErr(err)
	}

	return key, nil
}

// authenticate verifies the supplied key against the account's stored
// hash. Unknown usernames burn a comparison against the dummy hash so
// both failure modes look identical to the caller.
func (s *PresenceService) authenticate(ctx context.Context, username, key string) error {
	account, err := s.repos.Accounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(key))
			return common.ErrAuthFailed
		}
		return storeErr(err)
	}

	if bcrypt.CompareHashAndPassword(account.KeyHash, []byte(key)) != nil {
		return common.ErrAuthFailed
	}

	return nil
}

// Login verifies the credential and marks the account online for one
// session window. A non-nil message replaces the stored status message;
// nil keeps it.
func (s *PresenceService) Login(ctx context.Context, username, key string, message *string) error {
	if err := s.authenticate(ctx, username, key); err != nil {
		return err
	}

	unlock := s.locks.Lock(username)
	defer unlock()

	if err := s.repos.Presence().SetOnline(ctx, username, s.clock.Now(), s.sessionDuration, message); err != nil {
		return storeErr(err)
	}

	return nil
}

// Logoff verifies the credential and marks the account offline. Logging
// off an account that is not effectively online fails with ErrNotOnline
// so the caller can tell "I ended my session" from "it had already
// lapsed".
func (s *PresenceService) Logoff(ctx context.Context, username, key string) error {
	if err := s.authenticate(ctx, username, key); err != nil {
		return err
	}

	unlock := s.locks.Lock(username)
	defer unlock()

	status, err := s.repos.Presence().GetStatus(ctx, username, s.clock.Now())
	if err != nil {
		return storeErr(err)
	}
	if !status.Online {
		return common.ErrNotOnline
	}

	if err := s.repos.Presence().SetOffline(ctx, username); err != nil {
		return storeErr(err)
	}

	return nil
}

// Bump slides the expiry window to now plus one session duration. The
// window extends from the bump timestamp, not from the original login.
func (s *PresenceService) Bump(ctx context.Context, username, key string) error {
	if err := s.authenticate(ctx, username, key); err != nil {
		return err
	}

	unlock := s.locks.Lock(username)
	defer unlock()

	err := s.repos.Presence().Bump(ctx, username, s.clock.Now(), s.sessionDuration)
	if err != nil {
		if errors.Is(err, common.ErrNotOnline) {
			return err
		}
		return storeErr(err)
	}

	return nil
}

// Finger looks up the subject's effective status. When caller credentials
// are supplied they must be valid; the lookup is then recorded in the
// subject's visibility log, except for self-checks. Anonymous lookups
// return the status only and leave no trace. Supplying either credential
// field counts as an authentication attempt; there is no silent fallback
// to anonymous behavior.
func (s *PresenceService) Finger(ctx context.Context, subject, callerUsername, callerKey string) (models.Status, error) {
	if _, err := s.repos.Accounts().GetByUsername(ctx, subject); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.Status{}, common.ErrUserNotFound
		}
		return models.Status{}, storeErr(err)
	}

	authenticated := callerUsername != "" || callerKey != ""
	if authenticated {
		if err := s.authenticate(ctx, callerUsername, callerKey); err != nil {
			return models.Status{}, err
		}
	}

	unlock := s.locks.Lock(subject)
	defer unlock()

	now := s.clock.Now()
	status, err := s.repos.Presence().GetStatus(ctx, subject, now)
	if err != nil {
		return models.Status{}, storeErr(err)
	}

	// Checking yourself is not a social signal, so it is not logged.
	if authenticated && callerUsername != subject {
		if err := s.repos.Visibility().Record(ctx, subject, callerUsername, now); err != nil {
			return models.Status{}, storeErr(err)
		}
	}

	return status, nil
}

// List returns the usernames currently effectively online, in
// lexicographic order. The snapshot need not be transactionally
// consistent with concurrent logins, but an account whose logoff
// happened before the read never shows as online.
func (s *PresenceService) List(ctx context.Context) ([]string, error) {
	usernames, err := s.repos.Presence().ListOnline(ctx, s.clock.Now())
	if err != nil {
		return nil, storeErr(err)
	}
	return usernames, nil
}

// Check verifies the credential and returns the callers who fingered the
// account, oldest first.
func (s *PresenceService) Check(ctx context.Context, username, key string) ([]models.VisibilityEntry, error) {
	if err := s.authenticate(ctx, username, key); err != nil {
		return nil, err
	}

	entries, err := s.repos.Visibility().ListCheckers(ctx, username)
	if err != nil {
		return nil, storeErr(err)
	}

	return entries, nil
}
