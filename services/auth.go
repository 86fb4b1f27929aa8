package services

import (
	"errors"
	"fmt"
	"time"

	"storefront/core"
	"storefront/pkg/token"
)

// Credentials are the raw credential strings extracted from a request by
// the HTTP adapter: the Authorization header (`Bearer <apiKey> [<token>]`)
// or the apiKey/accessToken cookie pair.
type Credentials struct {
	APIKey      string
	AccessToken string
}

// Blank reports whether no credential was supplied at all. Such requests
// proceed unauthenticated; protected routes reject them downstream.
func (c Credentials) Blank() bool {
	return c.APIKey == "" && c.AccessToken == ""
}

// Resolution is the outcome of resolving a request's credentials.
type Resolution struct {
	Actor *core.Actor

	// FreshToken is non-empty when the API-key fallback was taken and a
	// new access token must be attached to the response, so subsequent
	// requests can resolve via claims without a store lookup.
	FreshToken string
}

// AuthResolver maps request credentials to an acting principal.
//
// A syntactically present but invalid token is not fatal: it degrades to
// the API-key path. Only an unresolvable API key fails the request.
type AuthResolver struct {
	db       core.MemberStorage
	codec    *token.Codec
	cache    core.Cache // optional, can be nil if caching is disabled
	tokenTTL time.Duration
}

func NewAuthResolver(db core.MemberStorage, codec *token.Codec, cache core.Cache, tokenTTL time.Duration) *AuthResolver {
	return &AuthResolver{db: db, codec: codec, cache: cache, tokenTTL: tokenTTL}
}

// TokenTTL returns the lifetime applied to issued access tokens.
func (r *AuthResolver) TokenTTL() time.Duration {
	return r.tokenTTL
}

// Resolve implements the credential pipeline. It returns (nil, nil) for a
// request without credentials.
//
// A valid access token resolves purely from its signed claims, with no
// credential-store round-trip. Otherwise the API key is looked up, and a
// fresh token is issued for the response.
func (r *AuthResolver) Resolve(creds Credentials) (*Resolution, error) {
	if creds.Blank() {
		return nil, nil
	}

	if creds.AccessToken != "" {
		if claims, err := r.codec.Decode(creds.AccessToken); err == nil {
			actor := &core.Actor{Member: claims.Member(), Source: core.FromClaims}
			return &Resolution{Actor: actor}, nil
		}
		// Invalid or expired token: fall through to the API-key path.
	}

	member, err := r.lookupByAPIKey(creds.APIKey)
	if err != nil {
		return nil, err
	}

	fresh, err := r.codec.Issue(member, r.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &Resolution{
		Actor:      &core.Actor{Member: member, Source: core.FromStore},
		FreshToken: fresh,
	}, nil
}

// IssueToken signs a fresh access token for the member (login path).
func (r *AuthResolver) IssueToken(m *core.Member) (string, error) {
	return r.codec.Issue(m, r.tokenTTL)
}

func (r *AuthResolver) lookupByAPIKey(apiKey string) (*core.Member, error) {
	if apiKey == "" {
		return nil, core.ErrInvalidAPIKey
	}

	if r.cache != nil {
		if member, err := r.cache.Get(apiKey); err == nil && member != nil {
			return member, nil
		}
		// Cache miss - fall through to storage
	}

	member, err := r.db.GetMemberByAPIKey(apiKey)
	if err != nil {
		if errors.Is(err, core.ErrMemberNotFound) {
			return nil, core.ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("failed to look up api key: %w", err)
	}

	if r.cache != nil {
		// We don't fail the request if caching fails
		_ = r.cache.Set(apiKey, member)
	}

	return member, nil
}
