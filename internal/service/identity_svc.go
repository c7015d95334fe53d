package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pgwilde8/urvote-rocks/internal/auth"
	"github.com/pgwilde8/urvote-rocks/internal/model"
	"github.com/pgwilde8/urvote-rocks/internal/repository"
)

var (
	// ErrInvalidIdentity means the request carried no usable voter identity:
	// no bearer credential and no syntactically valid voter email.
	ErrInvalidIdentity = errors.New("invalid voter identity")

	// ErrUnauthenticated means a bearer credential was presented but did not
	// verify, or maps to no active account.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// IdentityService classifies vote requests into voter identities.
type IdentityService struct {
	issuer   *auth.TokenIssuer // nil when authenticated voting is disabled
	accounts *repository.AccountRepo
}

func NewIdentityService(issuer *auth.TokenIssuer, accounts *repository.AccountRepo) *IdentityService {
	return &IdentityService{issuer: issuer, accounts: accounts}
}

// Resolve turns a request's credentials into a voter identity. A present
// bearer token must verify and map to an active account; it is never
// silently downgraded to an anonymous identity. Without a token, a valid
// voter email is required and becomes the anonymous identity key.
func (s *IdentityService) Resolve(ctx context.Context, bearer, voterEmail string) (model.VoterIdentity, error) {
	if bearer != "" {
		if s.issuer == nil {
			return model.VoterIdentity{}, ErrUnauthenticated
		}
		accountID, err := s.issuer.Verify(bearer)
		if err != nil {
			return model.VoterIdentity{}, ErrUnauthenticated
		}

		acct, err := s.accounts.FindByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.VoterIdentity{}, ErrUnauthenticated
			}
			return model.VoterIdentity{}, err
		}
		if !acct.IsActive {
			return model.VoterIdentity{}, ErrUnauthenticated
		}

		return model.VoterIdentity{
			Kind: model.KindAuthenticated,
			Key:  strconv.FormatInt(acct.ID, 10),
		}, nil
	}

	email, ok := model.NormalizeVoterEmail(voterEmail)
	if !ok {
		return model.VoterIdentity{}, ErrInvalidIdentity
	}
	return model.VoterIdentity{Kind: model.KindAnonymous, Key: email}, nil
}

// BearerToken extracts the token from an Authorization header value. Returns
// "" when the header is absent or not a bearer scheme.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
