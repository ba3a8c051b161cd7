package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/models"
)

type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.PublicUser, error)
}

// Gate decides, per request, whether a bearer token identifies an existing
// user. Every rejection wraps common.ErrUnauthenticated; the wrapped cause
// (ErrInvalidToken, ErrTokenExpired, ErrNotFound) is for diagnostics only.
type Gate struct {
	tokens TokenVerifier
	users  UserFinder
	logger logging.Logger
}

func NewGate(tokens TokenVerifier, users UserFinder, logger logging.Logger) *Gate {
	return &Gate{tokens: tokens, users: users, logger: logger.With("module", "gate")}
}

// Authenticate resolves the user behind an Authorization header value.
// Store failures other than a missing user are returned as common.ErrInternal.
func (g *Gate) Authenticate(ctx context.Context, header string) (*models.PublicUser, error) {
	token, err := ParseBearer(header)
	if err != nil {
		g.logger.Debug(ctx, "rejected request", "reason", err.Error())
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		g.logger.Warn(ctx, "rejected token", "reason", err.Error())
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	user, err := g.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			g.logger.Warn(ctx, "token subject does not exist", "user_id", claims.Subject)
			return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
		}
		g.logger.Error(ctx, "user lookup failed", "user_id", claims.Subject, "error", err.Error())
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}

	return user, nil
}

var errMalformedHeader = errors.New("malformed authorization header")
var errMissingHeader = errors.New("missing authorization header")

// ParseBearer extracts the token from a "Bearer <token>" header value. The
// scheme is matched case-insensitively.
func ParseBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingHeader
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", errMalformedHeader
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", errMalformedHeader
	}
	return token, nil
}
