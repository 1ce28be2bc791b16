package token

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnauthenticated is returned for any token that does not resolve to a
// live binding, regardless of the reason.
var ErrUnauthenticated = errors.New("unauthenticated")

// Binding is the durable association between a token and the user it
// authenticates. Only a digest of the secret is stored.
type Binding struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Label     string
	TokenHash string
	CreatedAt time.Time
}

// Repository persists token bindings.
type Repository interface {
	Create(ctx context.Context, binding Binding) error
	GetByID(ctx context.Context, id uuid.UUID) (Binding, error)
	// Delete reports whether a binding was actually removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Session is the authenticated identity resolved from a bearer token.
type Session struct {
	TokenID uuid.UUID
	UserID  uuid.UUID
}

// Service issues and resolves opaque bearer tokens. The plaintext form is
// "<bindingID>|<secret>"; the caller sees it exactly once.
type Service struct {
	repo        Repository
	secretBytes int
}

func NewService(repo Repository, secretBytes int) *Service {
	if secretBytes <= 0 {
		secretBytes = 32
	}
	return &Service{repo: repo, secretBytes: secretBytes}
}

// Issue mints a new token for the user and records its binding.
func (s *Service) Issue(ctx context.Context, userID uuid.UUID, label string) (string, error) {
	secret, err := randHexString(s.secretBytes)
	if err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}

	binding := Binding{
		ID:        uuid.New(),
		UserID:    userID,
		Label:     label,
		TokenHash: digest(secret),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, binding); err != nil {
		return "", fmt.Errorf("store token binding: %w", err)
	}

	return binding.ID.String() + "|" + secret, nil
}

// Resolve maps a presented token to a Session. Malformed tokens, unknown
// bindings and digest mismatches all collapse into ErrUnauthenticated so
// nothing internal leaks to the caller.
func (s *Service) Resolve(ctx context.Context, plaintext string) (Session, error) {
	id, secret, ok := strings.Cut(plaintext, "|")
	if !ok {
		return Session{}, ErrUnauthenticated
	}
	bindingID, err := uuid.Parse(id)
	if err != nil {
		return Session{}, ErrUnauthenticated
	}

	binding, err := s.repo.GetByID(ctx, bindingID)
	if err != nil {
		return Session{}, ErrUnauthenticated
	}
	if subtle.ConstantTimeCompare([]byte(digest(secret)), []byte(binding.TokenHash)) != 1 {
		return Session{}, ErrUnauthenticated
	}

	return Session{TokenID: binding.ID, UserID: binding.UserID}, nil
}

// Revoke deletes exactly one binding. It is safe to call for a binding
// that is already gone; the bool tells the caller which case it was.
func (s *Service) Revoke(ctx context.Context, tokenID uuid.UUID) (bool, error) {
	return s.repo.Delete(ctx, tokenID)
}

// RevokeAllForUser drops every binding the user holds.
func (s *Service) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.DeleteByUser(ctx, userID)
}

func digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func randHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
