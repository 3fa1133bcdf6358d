package oidc

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gogotex/gonotes/pkg/middleware"
)

// Verifier checks access tokens issued by an OIDC provider (Keycloak in
// deployment) against the provider's published signing keys.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier discovers the provider at issuer. An empty clientID disables the
// audience check, which Keycloak access tokens usually need.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &Verifier{verifier: provider.Verifier(config(clientID))}, nil
}

// NewStaticVerifier verifies against a fixed key set without discovery.
func NewStaticVerifier(issuer, clientID string, keys *oidc.StaticKeySet) *Verifier {
	return &Verifier{verifier: oidc.NewVerifier(issuer, keys, config(clientID))}
}

func config(clientID string) *oidc.Config {
	return &oidc.Config{ClientID: clientID, SkipClientIDCheck: clientID == ""}
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}
