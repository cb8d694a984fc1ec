package auth

import (
	"context"
	"slices"
)

// Identity is the authenticated caller, taken from a verified session token.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Roles  []string
	Token  string
}

func (i Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
