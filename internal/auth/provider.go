// Package auth wraps the authentication collaborator. The rest of the app
// treats a missing session as "operation not permitted" and either fails
// closed or returns an authentication-required error.
package auth

import (
	"context"
	"time"

	"github.com/wanderplan/wanderplan-backend/types"
)

// SessionProvider exposes the session operations the app needs. Supabase
// GoTrue backs the live implementation; Static backs fixture mode.
type SessionProvider interface {
	// GetSession resolves the user behind an access token. Returns an
	// authentication-required error when the token is empty or rejected.
	GetSession(ctx context.Context, accessToken string) (*types.Session, error)
	SignIn(ctx context.Context, email, password string) (*types.Session, error)
	SignUp(ctx context.Context, email, password string) (*types.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	RefreshSession(ctx context.Context, refreshToken string) (*types.Session, error)
}

// withRetry runs fn up to maxRetries+1 times with a fixed delay between
// attempts. Only session lookup uses this; no other gateway call retries.
func withRetry(ctx context.Context, maxRetries int, delay time.Duration, fn func() error) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
