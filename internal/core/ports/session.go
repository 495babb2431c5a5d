package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/garage_booking/internal/core/domain"
)

// IdentityProvider returns the signed-in user, or nil when nobody is signed in.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) *domain.User
}

type IdentityProviderFunc func(ctx context.Context) *domain.User

func (f IdentityProviderFunc) CurrentUser(ctx context.Context) *domain.User {
	return f(ctx)
}

// IdempotencyStore remembers which appointment a client request token produced.
// Tokens are scoped to the user that submitted them.
type IdempotencyStore interface {
	// Reserve claims the token. When the user already used it, it returns
	// reserved=false together with the appointment it produced, or a nil id
	// if that commit is still running.
	Reserve(ctx context.Context, userID uuid.UUID, token string) (existing *uuid.UUID, reserved bool, err error)
	Complete(ctx context.Context, userID uuid.UUID, token string, appointmentID uuid.UUID) error
	Release(ctx context.Context, userID uuid.UUID, token string) error
}
