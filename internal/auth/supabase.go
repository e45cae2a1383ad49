package auth

import (
	"context"
	"time"

	"github.com/supabase-community/gotrue-go"
	gotruetypes "github.com/supabase-community/gotrue-go/types"

	apperrors "github.com/wanderplan/wanderplan-backend/errors"
	"github.com/wanderplan/wanderplan-backend/logger"
	"github.com/wanderplan/wanderplan-backend/types"
)

// SupabaseProvider implements SessionProvider on the GoTrue client.
type SupabaseProvider struct {
	auth       gotrue.Client
	maxRetries int
	retryDelay time.Duration
}

var _ SessionProvider = (*SupabaseProvider)(nil)

// NewSupabaseProvider wraps a GoTrue client. maxRetries and retryDelay apply
// to session lookup only.
func NewSupabaseProvider(auth gotrue.Client, maxRetries int, retryDelay time.Duration) *SupabaseProvider {
	return &SupabaseProvider{
		auth:       auth,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

func (p *SupabaseProvider) GetSession(ctx context.Context, accessToken string) (*types.Session, error) {
	if accessToken == "" {
		return nil, apperrors.AuthenticationRequired("no access token provided")
	}

	var resp *gotruetypes.UserResponse
	err := withRetry(ctx, p.maxRetries, p.retryDelay, func() error {
		var err error
		resp, err = p.auth.WithToken(accessToken).GetUser()
		return err
	})
	if err != nil {
		logger.GetLogger().Warnw("Session lookup failed", "error", err)
		return nil, apperrors.AuthenticationRequired("session lookup failed")
	}

	return &types.Session{
		UserID:      resp.ID.String(),
		Email:       resp.Email,
		AccessToken: accessToken,
	}, nil
}

func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (*types.Session, error) {
	resp, err := p.auth.SignInWithEmailPassword(email, password)
	if err != nil {
		logger.GetLogger().Warnw("Sign in failed", "email", logger.MaskEmail(email), "error", err)
		return nil, apperrors.Unauthorized("sign_in_failed", "invalid email or password")
	}
	return tokenResponseToSession(resp), nil
}

// SignUp registers the user and signs them in. GoTrue's signup response shape
// varies with the project's confirmation settings, so the fresh sign-in keeps
// this path uniform.
func (p *SupabaseProvider) SignUp(ctx context.Context, email, password string) (*types.Session, error) {
	if _, err := p.auth.Signup(gotruetypes.SignupRequest{Email: email, Password: password}); err != nil {
		logger.GetLogger().Warnw("Sign up failed", "email", logger.MaskEmail(email), "error", err)
		return nil, apperrors.Unauthorized("sign_up_failed", "could not create account")
	}
	return p.SignIn(ctx, email, password)
}

func (p *SupabaseProvider) SignOut(_ context.Context, accessToken string) error {
	if accessToken == "" {
		return apperrors.AuthenticationRequired("no access token provided")
	}
	if err := p.auth.WithToken(accessToken).Logout(); err != nil {
		return apperrors.Wrap(err, apperrors.RemoteError, "sign out failed")
	}
	return nil
}

func (p *SupabaseProvider) RefreshSession(_ context.Context, refreshToken string) (*types.Session, error) {
	resp, err := p.auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("refresh_failed", "failed to refresh token")
	}
	return tokenResponseToSession(resp), nil
}

func tokenResponseToSession(resp *gotruetypes.TokenResponse) *types.Session {
	return &types.Session{
		UserID:       resp.User.ID.String(),
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}
}
