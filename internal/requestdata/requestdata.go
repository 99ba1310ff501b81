package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

var principalKey contextKey

// Principal is the authenticated identity for one request. It lives only in
// the request context; nothing caches it across requests.
type Principal struct {
	UserID uuid.UUID
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey).(*Principal); ok {
		return p
	}
	return nil
}
