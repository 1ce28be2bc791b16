package account_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkim-dev/usersvc/pkg/account"
	"github.com/pkim-dev/usersvc/pkg/security/password"
)

type memoryUserRepo struct {
	users map[uuid.UUID]account.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]account.User)}
}

func (m *memoryUserRepo) Create(ctx context.Context, user account.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return account.ErrEmailTaken
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (account.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return account.User{}, account.ErrNotFound
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (account.User, error) {
	u, ok := m.users[id]
	if !ok {
		return account.User{}, account.ErrNotFound
	}
	return u, nil
}

func (m *memoryUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return account.ErrNotFound
	}
	u.PasswordHash = passwordHash
	m.users[id] = u
	return nil
}

func (m *memoryUserRepo) Delete(ctx context.Context, id uuid.UUID) (account.User, error) {
	u, ok := m.users[id]
	if !ok {
		return account.User{}, account.ErrNotFound
	}
	delete(m.users, id)
	return u, nil
}

type memoryIssuer struct {
	seq     int
	byToken map[uuid.UUID]uuid.UUID // token id -> user id
}

func newMemoryIssuer() *memoryIssuer {
	return &memoryIssuer{byToken: make(map[uuid.UUID]uuid.UUID)}
}

func (m *memoryIssuer) Issue(ctx context.Context, userID uuid.UUID, label string) (string, error) {
	m.seq++
	id := uuid.New()
	m.byToken[id] = userID
	return fmt.Sprintf("%s|secret-%d", id, m.seq), nil
}

func (m *memoryIssuer) Revoke(ctx context.Context, tokenID uuid.UUID) (bool, error) {
	if _, ok := m.byToken[tokenID]; !ok {
		return false, nil
	}
	delete(m.byToken, tokenID)
	return true, nil
}

func (m *memoryIssuer) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for id, uid := range m.byToken {
		if uid == userID {
			delete(m.byToken, id)
			n++
		}
	}
	return n, nil
}

func newTestService(t *testing.T) (account.UseCase, *memoryUserRepo, *memoryIssuer) {
	t.Helper()
	users := newMemoryUserRepo()
	issuer := newMemoryIssuer()
	svc, err := account.NewService(users, issuer, password.NewHasher(bcrypt.MinCost), zap.NewNop())
	require.NoError(t, err)
	return svc, users, issuer
}

func registerInput() account.RegisterInput {
	return account.RegisterInput{
		Name:     "Cheolsu",
		Email:    "user1@mail.com",
		Password: "12345",
		TC:       true,
	}
}

func TestRegister(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Cheolsu", result.User.Name)
	assert.True(t, result.User.TC)
	assert.NotEqual(t, "12345", result.User.PasswordHash)

	// Second register with the same email must not create a second user.
	_, err = svc.Register(ctx, registerInput())
	assert.ErrorIs(t, err, account.ErrEmailTaken)
	assert.Len(t, users.users, 1)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	result, err := svc.Login(ctx, "user1@mail.com", "12345")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, registered.Token, result.Token)

	// Wrong password and unknown email fail with the same sentinel.
	_, err = svc.Login(ctx, "user1@mail.com", "wrong")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@mail.com", "12345")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)
}

func TestLoginEmailIsCaseSensitive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "User1@Mail.com", "12345")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)
}

func TestLogoutRevokesExactlyOneToken(t *testing.T) {
	svc, _, issuer := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	_, err = svc.Login(ctx, "user1@mail.com", "12345")
	require.NoError(t, err)
	require.Len(t, issuer.byToken, 2)

	tokenID := tokenIDOf(t, result.Token)
	require.NoError(t, svc.Logout(ctx, tokenID))
	assert.Len(t, issuer.byToken, 1)
	assert.NotContains(t, issuer.byToken, tokenID)

	// Logging out an already-revoked token is not an error.
	require.NoError(t, svc.Logout(ctx, tokenID))
}

func TestChangePassword(t *testing.T) {
	svc, _, issuer := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	before := len(issuer.byToken)

	require.NoError(t, svc.ChangePassword(ctx, result.User.ID, "newpass"))

	_, err = svc.Login(ctx, "user1@mail.com", "newpass")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "user1@mail.com", "12345")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)

	// No session is forced out by a password change. Two logins above
	// added tokens; none were removed.
	assert.Len(t, issuer.byToken, before+1)
}

func TestGetUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	user, err := svc.GetUser(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cheolsu", user.Name)

	_, err = svc.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _, issuer := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	_, err = svc.Login(ctx, "user1@mail.com", "12345")
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, deleted.ID)
	assert.Equal(t, "user1@mail.com", deleted.Email)

	// All of the user's tokens are gone with the record.
	assert.Empty(t, issuer.byToken)
	_, err = svc.GetUser(ctx, result.User.ID)
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func tokenIDOf(t *testing.T, plaintext string) uuid.UUID {
	t.Helper()
	idStr, _, ok := strings.Cut(plaintext, "|")
	require.True(t, ok)
	id, err := uuid.Parse(idStr)
	require.NoError(t, err)
	return id
}
