// Package auth verifies bearer credentials issued by the identity provider.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken covers every rejection: malformed, expired, forged or
// issued for another project.
var ErrInvalidToken = errors.New("auth: invalid token")

// Identity is what a verified credential proves about the caller.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// Verifier validates a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, token string) (*Identity, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (*Identity, error) {
	return f(ctx, token)
}
