package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/rsharma/socialnet/internal/domain"
	"github.com/rsharma/socialnet/internal/repository"
)

const (
	tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	tokenLength   = 20
)

// SessionManager issues, verifies and revokes opaque session tokens against
// the session store.
type SessionManager struct {
	store repository.SessionStore
}

func NewSessionManager(store repository.SessionStore) *SessionManager {
	return &SessionManager{store: store}
}

type IssueInput struct {
	ProfileID       uuid.UUID
	UserIdentifier  string
	Provider        string
	DeviceInfo      string
	OperatingSystem string
	AccessLevel     string
}

// Issue creates a fresh session and returns its bearer token. Sessions do
// not expire; they persist until revoked.
func (m *SessionManager) Issue(ctx context.Context, input IssueInput) (string, error) {
	token, err := generateToken(tokenLength)
	if err != nil {
		return "", err
	}

	now := time.Now().UnixMilli()
	session := &domain.Session{
		Token:           token,
		UserID:          input.ProfileID,
		UserIdentifier:  input.UserIdentifier,
		Provider:        input.Provider,
		AccessLevel:     orDefault(input.AccessLevel),
		Device:          orDefault(input.DeviceInfo),
		OperatingSystem: orDefault(input.OperatingSystem),
		CreatedAt:       now,
		LastModifiedAt:  now,
	}

	if err := m.store.Create(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

// Verify resolves a bearer token to its session metadata. An unknown token
// yields domain.ErrUnauthenticated.
func (m *SessionManager) Verify(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}

// RevokeOne logs out a single device.
func (m *SessionManager) RevokeOne(ctx context.Context, profileID uuid.UUID, token string) error {
	return m.store.Delete(ctx, profileID, token)
}

// RevokeAll invalidates every session the profile holds.
func (m *SessionManager) RevokeAll(ctx context.Context, profileID uuid.UUID) error {
	return m.store.DeleteAll(ctx, profileID)
}

func orDefault(value string) string {
	if value == "" {
		return domain.DefaultSessionField
	}
	return value
}

func generateToken(length int) (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
