package auth

import (
	"context"

	apperrors "github.com/wanderplan/wanderplan-backend/errors"
	"github.com/wanderplan/wanderplan-backend/types"
)

// Static always resolves the same session. It pairs with the fixture data
// source so the full app can run without a backend.
type Static struct {
	Session types.Session
}

var _ SessionProvider = (*Static)(nil)

// NewStatic returns a provider pinned to the given user.
func NewStatic(userID, email string) *Static {
	return &Static{Session: types.Session{
		UserID:      userID,
		Email:       email,
		AccessToken: "fixture-token",
	}}
}

func (s *Static) GetSession(_ context.Context, accessToken string) (*types.Session, error) {
	if accessToken == "" {
		return nil, apperrors.AuthenticationRequired("no access token provided")
	}
	sess := s.Session
	return &sess, nil
}

func (s *Static) SignIn(_ context.Context, email, _ string) (*types.Session, error) {
	sess := s.Session
	if email != "" {
		sess.Email = email
	}
	return &sess, nil
}

func (s *Static) SignUp(ctx context.Context, email, password string) (*types.Session, error) {
	return s.SignIn(ctx, email, password)
}

func (s *Static) SignOut(context.Context, string) error {
	return nil
}

func (s *Static) RefreshSession(context.Context, string) (*types.Session, error) {
	sess := s.Session
	return &sess, nil
}
