package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/joestump/trail-mix/internal/config"
)

// ErrMissingSubject is returned when a verified ID token carries no sub claim.
var ErrMissingSubject = errors.New("id_token has no subject")

// Identity is the part of a verified ID token the app keeps: who the hiker
// is, the name shown on their page and next to their comments, and their
// avatar.
type Identity struct {
	Issuer  string
	Subject string
	Email   string
	Name    string
	Picture string
}

// idClaims are the standard claims requested through the profile and email
// scopes.
type idClaims struct {
	Subject           string `json:"sub"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	GivenName         string `json:"given_name"`
	PreferredUsername string `json:"preferred_username"`
	Picture           string `json:"picture"`
}

// identity builds an Identity. Providers that omit name fall back to
// given_name, preferred_username, then the local part of the email.
func (c idClaims) identity(issuer string) (*Identity, error) {
	if strings.TrimSpace(c.Subject) == "" {
		return nil, ErrMissingSubject
	}
	name := firstNonEmpty(c.Name, c.GivenName, c.PreferredUsername)
	if name == "" {
		name, _, _ = strings.Cut(c.Email, "@")
	}
	if name == "" {
		name = "Hiker"
	}
	return &Identity{
		Issuer:  issuer,
		Subject: c.Subject,
		Email:   strings.TrimSpace(c.Email),
		Name:    name,
		Picture: strings.TrimSpace(c.Picture),
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Provider signs hikers in through an OIDC issuer using the authorization
// code flow with PKCE.
type Provider struct {
	verifier     *gooidc.IDTokenVerifier
	oauth2Config oauth2.Config
}

// NewProvider performs OIDC discovery against cfg.OIDC.Issuer.
func NewProvider(ctx context.Context, cfg *config.Config) (*Provider, error) {
	provider, err := gooidc.NewProvider(ctx, cfg.OIDC.Issuer)
	if err != nil {
		return nil, fmt.Errorf("OIDC provider discovery failed for %s: %w", cfg.OIDC.Issuer, err)
	}

	return &Provider{
		verifier: provider.Verifier(&gooidc.Config{ClientID: cfg.OIDC.ClientID}),
		oauth2Config: oauth2.Config{
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
			Endpoint:     provider.Endpoint(),
			// profile carries name and picture for the user page header.
			Scopes: []string{gooidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

// AuthCodeURL returns the issuer's login URL carrying state and the S256
// challenge for verifier.
func (p *Provider) AuthCodeURL(state, verifier string) string {
	return p.oauth2Config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
	)
}

// Exchange trades an authorization code for tokens, verifies the ID token
// and returns the identity it describes.
func (p *Provider) Exchange(ctx context.Context, code, verifier string) (*Identity, error) {
	token, err := p.oauth2Config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("no id_token in token response")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("id_token verification: %w", err)
	}

	var claims idClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("id_token claims: %w", err)
	}
	return claims.identity(idToken.Issuer)
}

// GenerateState returns a cryptographically random state string.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
