// Package services contains server-side business logic. UserService handles
// registration, login and user lookup, and issues access tokens.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/auth"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/users"
)

// TokenIssuer mints an access token for a user ID.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	User  *models.PublicUser
	Token string
}

// UserService never returns a password hash: every user value it hands out
// is a models.PublicUser.
type UserService struct {
	repo   users.Repository
	hasher auth.Hasher
	tokens TokenIssuer
	logger logging.Logger

	// dummyHash is verified against when the email is unknown, so a failed
	// login costs the same whether or not the account exists.
	dummyHash string
}

func NewUserService(repo users.Repository, hasher auth.Hasher, tokens TokenIssuer, logger logging.Logger) (*UserService, error) {
	dummy, err := hasher.Hash("gophid-unknown-user")
	if err != nil {
		return nil, fmt.Errorf("%w: password hasher: %w", common.ErrConfiguration, err)
	}
	return &UserService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger.With("module", "users"),
		dummyHash: dummy,
	}, nil
}

// Register creates a user and returns it together with an access token.
// An email that is already taken yields common.ErrDuplicateIdentity.
func (s *UserService) Register(ctx context.Context, email, password string, profile models.Profile) (*AuthResult, error) {
	user, err := s.create(ctx, email, password, profile)
	if err != nil {
		return nil, err
	}
	return s.authResult(user)
}

// Create is Register without issuing a token.
func (s *UserService) Create(ctx context.Context, email, password string, profile models.Profile) (*models.PublicUser, error) {
	user, err := s.create(ctx, email, password, profile)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// Login checks credentials and returns the user with a fresh access token.
// Unknown email and wrong password both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = models.NormalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.logger.Info(ctx, "login failed", "reason", "unknown email")
			return nil, common.ErrInvalidCredentials
		}
		return nil, s.internal(ctx, "lookup by email", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Info(ctx, "login failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}

	s.logger.Info(ctx, "login succeeded", "user_id", user.ID)
	return s.authResult(user)
}

// FindByID returns common.ErrNotFound when no user has the given ID.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.PublicUser, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, s.internal(ctx, "lookup by id", err)
	}
	return user.Public(), nil
}

func (s *UserService) ListAll(ctx context.Context) ([]models.PublicUser, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.internal(ctx, "list users", err)
	}

	result := make([]models.PublicUser, 0, len(list))
	for i := range list {
		result = append(result, *list[i].Public())
	}
	return result, nil
}

// RenewToken issues a new token for an already authenticated user. Tokens
// issued earlier stay valid until they expire.
func (s *UserService) RenewToken(ctx context.Context, user *models.PublicUser) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, s.internal(ctx, "issue token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) create(ctx context.Context, email, password string, profile models.Profile) (*models.User, error) {
	email = models.NormalizeEmail(email)

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Info(ctx, "registration rejected", "reason", "duplicate email")
		return nil, common.ErrDuplicateIdentity
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, s.internal(ctx, "lookup by email", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrEmptyPassword) {
			return nil, err
		}
		return nil, s.internal(ctx, "hash password", err)
	}

	user, err := s.repo.Create(ctx, &models.User{Email: email, PasswordHash: hash, Name: profile.Name})
	if err != nil {
		// lost the race against a concurrent registration
		if errors.Is(err, common.ErrAlreadyExists) {
			s.logger.Info(ctx, "registration rejected", "reason", "unique violation")
			return nil, common.ErrDuplicateIdentity
		}
		return nil, s.internal(ctx, "create user", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *UserService) authResult(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %w", common.ErrInternal, err)
	}
	return &AuthResult{User: user.Public(), Token: token}, nil
}

func (s *UserService) internal(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, op+" failed", "error", err.Error())
	return fmt.Errorf("%w: %s: %w", common.ErrInternal, op, err)
}
