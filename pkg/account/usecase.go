package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UseCase describes registration, authentication and profile behavior.
type UseCase interface {
	Register(ctx context.Context, input RegisterInput) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Logout(ctx context.Context, tokenID uuid.UUID) error
	UserInfo(ctx context.Context, userID uuid.UUID) (User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, password string) error
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	Delete(ctx context.Context, userID uuid.UUID) (User, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	TC       bool
}

type AuthResult struct {
	User  User
	Token string
}

type service struct {
	users  UserRepository
	tokens TokenIssuer
	hasher CredentialHasher
	log    *zap.Logger

	// dummyHash is verified against on the unknown-email login path so that
	// the response time does not reveal whether the account exists.
	dummyHash string
}

// NewService returns the default implementation of UseCase.
func NewService(users UserRepository, tokens TokenIssuer, hasher CredentialHasher, log *zap.Logger) (UseCase, error) {
	dummy, err := hasher.Hash("unused-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &service{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		log:       log,
		dummyHash: dummy,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		TC:           input.TC,
		CreatedAt:    time.Now().UTC(),
	}
	// Uniqueness is enforced by the store; a duplicate never persists.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.ID, user.Email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return AuthResult{User: user, Token: token}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Burn the same bcrypt cost as the found-user path.
			s.hasher.Verify(password, s.dummyHash)
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user.ID, user.Email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()))
	return AuthResult{User: user, Token: token}, nil
}

func (s *service) Logout(ctx context.Context, tokenID uuid.UUID) error {
	found, err := s.tokens.Revoke(ctx, tokenID)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.log.Info("token revoked",
		zap.String("token_id", tokenID.String()),
		zap.Bool("found", found))
	return nil
}

func (s *service) UserInfo(ctx context.Context, userID uuid.UUID) (User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, password string) error {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	// Other sessions stay valid; only the stored secret changes.
	if err := s.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.log.Info("password changed", zap.String("user_id", userID.String()))
	return nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID) (User, error) {
	revoked, err := s.tokens.RevokeAllForUser(ctx, userID)
	if err != nil {
		return User{}, fmt.Errorf("revoke tokens: %w", err)
	}
	user, err := s.users.Delete(ctx, userID)
	if err != nil {
		return User{}, err
	}
	s.log.Info("user deleted",
		zap.String("user_id", userID.String()),
		zap.Int64("tokens_revoked", revoked))
	return user, nil
}
