package storage

import (
	"context"

	"github.com/mmynk/arisan/internal/models"
)

type principalKey struct{}

// Principal is the signed-in user a store call runs on behalf of.
type Principal struct {
	UserID string
	Role   models.Role
}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal from ctx.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
