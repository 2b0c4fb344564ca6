package accounts

import (
	"context"
	"reflect"

	"github.com/goliatone/go-errors"
)

// Auther wires the credential verifier, the token codec, and the principal
// store into the three boundary operations: login, session recovery, and
// principal resolution. It holds no mutable state and is safe for concurrent
// use; the signing key and expiry are fixed at construction.
type Auther struct {
	provider        IdentityProvider
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        []string
	logger          Logger
	tokenService    TokenService
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:        provider,
		signingKey:      []byte(opts.GetSigningKey()),
		tokenExpiration: opts.GetTokenExpiration(),
		audience:        opts.GetAudience(),
		issuer:          opts.GetIssuer(),
		logger:          defLogger{},
		tokenService:    tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		s.audience,
		logger,
	)
	return s
}

// WithTokenService sets a custom token service, e.g. one with a pinned clock.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the submitted credentials and mints a bearer token. Every
// credential failure reads as ErrInvalidCredentials; only storage
// unavailability surfaces differently.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		if IsStorageUnavailable(err) {
			s.logger.Error("Login storage unavailable", "error", err)
			return "", err
		}
		s.logger.Info("Login rejected", "identifier", identifier)
		return "", ErrInvalidCredentials
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation failed", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to issue token")
	}

	return token, nil
}

// SessionFromToken verifies a raw bearer token and returns its claims view
func (s *Auther) SessionFromToken(raw string) (Session, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Info("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		s.logger.Error("SessionFromToken failed to create session from claims", "error", err)
		return nil, err
	}

	return session, nil
}

// IdentityFromSession turns a verified session into a live principal record.
// A subject that does not parse as a principal id fails with
// ErrMalformedSubject; a parsed id with no matching record fails with
// ErrPrincipalNotFound.
func (s *Auther) IdentityFromSession(ctx context.Context, session Session) (Identity, error) {
	uid, err := session.GetUserUUID()
	if err != nil {
		s.logger.Info("IdentityFromSession malformed subject", "subject", session.GetUserID())
		return nil, ErrMalformedSubject
	}

	identity, err := s.provider.FindIdentityByID(ctx, uid)
	if err != nil {
		s.logger.Info("IdentityFromSession lookup failed", "error", err)
		return nil, err
	}

	return identity, nil
}

// ResolvePrincipal composes token verification, subject parsing, and the
// storage lookup. All failure modes are treated identically by callers
// (reject the request); the taxonomy exists for logs, not for behavior.
func (s *Auther) ResolvePrincipal(ctx context.Context, raw string) (Identity, error) {
	session, err := s.SessionFromToken(raw)
	if err != nil {
		return nil, err
	}

	return s.IdentityFromSession(ctx, session)
}

var _ Authenticator = (*Auther)(nil)
