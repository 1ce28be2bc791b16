package account

import (
	"context"

	"github.com/google/uuid"
)

// TokenIssuer abstracts session token management.
// It allows use cases to stay transport-agnostic.
type TokenIssuer interface {
	// Issue mints an opaque bearer token bound to the user. The label is
	// kept for display/audit only and has no effect on access.
	Issue(ctx context.Context, userID uuid.UUID, label string) (string, error)
	// Revoke deletes exactly one binding and reports whether it existed.
	Revoke(ctx context.Context, tokenID uuid.UUID) (bool, error)
	// RevokeAllForUser deletes every binding held by the user and returns
	// the number removed.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// CredentialHasher turns a plaintext password into a storable secret and
// checks candidates against it.
type CredentialHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, secret string) bool
}
