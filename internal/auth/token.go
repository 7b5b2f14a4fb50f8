package auth

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
)

// ErrUnauthorized marks every token verification failure.
var ErrUnauthorized = errors.New("unauthorized")

const (
	// GoogleJWKSURL publishes the keys Google signs ID tokens with.
	GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

	acceptableSkew  = 10 * time.Second
	refreshInterval = 15 * time.Minute
)

// GoogleIssuers are the issuer values Google puts into ID tokens.
var GoogleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// Identity is the verified subject of an ID token.
type Identity struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

// Verifier turns the raw Authorization header value into an Identity.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*Identity, error)
}

// Validator verifies ID tokens issued to a single OAuth client.
type Validator struct {
	clientID string
	issuers  []string
	keys     jwk.Set
	now      func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithIssuers restricts the accepted "iss" claim. An empty list accepts any issuer.
func WithIssuers(issuers ...string) Option {
	return func(v *Validator) {
		v.issuers = issuers
	}
}

// WithKeySet uses a fixed key set instead of fetching one.
func WithKeySet(set jwk.Set) Option {
	return func(v *Validator) {
		v.keys = set
	}
}

// WithClock replaces the wall clock used for exp/iat/nbf checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// NewValidator builds a Validator for clientID. Keys are fetched lazily from
// jwksURL and cached until they go stale.
func NewValidator(ctx context.Context, clientID, jwksURL string, opts ...Option) (*Validator, error) {
	if clientID == "" {
		return nil, goerr.New("client id is required")
	}

	v := &Validator{
		clientID: clientID,
		issuers:  GoogleIssuers,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.keys == nil {
		if jwksURL == "" {
			return nil, goerr.New("jwks url is required")
		}
		cache := jwk.NewCache(ctx)
		if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(refreshInterval)); err != nil {
			return nil, goerr.Wrap(err, "register jwks url", goerr.V("jwks_url", jwksURL))
		}
		v.keys = jwk.NewCachedSet(cache, jwksURL)
	}

	return v, nil
}

// Verify checks signature, audience, issuer and validity window of the token
// and returns its subject.
func (v *Validator) Verify(ctx context.Context, raw string) (*Identity, error) {
	token := bearer(raw)
	if token == "" {
		return nil, goerr.Wrap(ErrUnauthorized, "missing token")
	}

	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKeySet(v.keys),
		jwt.WithValidate(true),
		jwt.WithAudience(v.clientID),
		jwt.WithAcceptableSkew(acceptableSkew),
		jwt.WithClock(jwt.ClockFunc(v.now)),
		jwt.WithContext(ctx),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthorized, "invalid token", goerr.V("reason", err.Error()))
	}

	if len(v.issuers) > 0 && !slices.Contains(v.issuers, parsed.Issuer()) {
		return nil, goerr.Wrap(ErrUnauthorized, "unexpected issuer", goerr.V("iss", parsed.Issuer()))
	}

	id := &Identity{UserID: parsed.Subject()}
	if id.UserID == "" {
		return nil, goerr.Wrap(ErrUnauthorized, "sub claim not found in token")
	}
	id.Email = stringClaim(parsed, "email")
	id.FirstName = stringClaim(parsed, "given_name")
	id.LastName = stringClaim(parsed, "family_name")

	return id, nil
}

// NoAuth accepts every request as a fixed user. Development only.
type NoAuth struct {
	UserID string
}

func (n NoAuth) Verify(context.Context, string) (*Identity, error) {
	return &Identity{UserID: n.UserID}, nil
}

// bearer strips an optional "Bearer " prefix from a header value.
func bearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	return raw
}

func stringClaim(token jwt.Token, name string) string {
	v, ok := token.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
