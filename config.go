package accounts

import "github.com/goliatone/go-router"

// Default values applied by StaticConfig when fields are zero
const (
	// DefaultTokenExpiration is the fixed token lifetime, in hours. There is
	// no refresh mechanism; a client re-authenticates after expiry.
	DefaultTokenExpiration = 24
	DefaultSigningMethod   = "HS256"
	DefaultContextKey      = "user"
	DefaultAuthScheme      = "Bearer"
)

// StaticConfig is a literal Config implementation. Values are loaded once at
// process start by the embedding application and never mutated afterwards,
// which keeps every component here safe for concurrent use.
type StaticConfig struct {
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	TokenExpiration int
	BcryptCost      int
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	Audience        []string
}

var _ Config = StaticConfig{}

func (c StaticConfig) GetSigningKey() string { return c.SigningKey }

func (c StaticConfig) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return DefaultSigningMethod
	}
	return c.SigningMethod
}

func (c StaticConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return DefaultContextKey
	}
	return c.ContextKey
}

func (c StaticConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return c.TokenExpiration
}

func (c StaticConfig) GetBcryptCost() int {
	if c.BcryptCost <= 0 {
		return DefaultBcryptCost
	}
	return c.BcryptCost
}

func (c StaticConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "header:" + router.HeaderAuthorization
	}
	return c.TokenLookup
}

func (c StaticConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return DefaultAuthScheme
	}
	return c.AuthScheme
}

func (c StaticConfig) GetIssuer() string { return c.Issuer }

func (c StaticConfig) GetAudience() []string { return c.Audience }
