// Package auth implements the console's login, code-exchange, refresh and
// logout flows. Every flow terminates in a session mutation: success writes
// the full tuple through session.Manager, terminal refresh failure clears it.
package auth

import (
	"context"
	"time"

	"github.com/adspay/console/idp"
	apperrors "github.com/adspay/console/internal/errors"
	"github.com/adspay/console/session"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ProfileFetcher loads the enriched operator profile after a code exchange.
// The fetch rides the authenticated gateway client, so it can only run once
// the session holds the freshly exchanged tokens.
type ProfileFetcher interface {
	Profile(ctx context.Context) (*session.User, error)
}

// Service owns the token lifecycle operations. The scheduler and the
// gateway transport both refresh through the same Service, sharing one
// in-flight exchange, so a rotated refresh token can never be consumed by
// two concurrent refresh calls.
type Service struct {
	sessions *session.Manager
	idp      idp.Client
	profile  ProfileFetcher
	nowTime  func() time.Time

	refreshGroup singleflight.Group
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithProfileFetcher enables the follow-up profile fetch after a code
// exchange. Without it the user is derived from token claims only.
func WithProfileFetcher(fetcher ProfileFetcher) ServiceOption {
	return func(s *Service) {
		s.profile = fetcher
	}
}

// SetProfileFetcher wires the profile fetch after construction. The fetch
// rides the gateway client, which itself needs this Service for refresh,
// so application wiring sets it last.
func (s *Service) SetProfileFetcher(fetcher ProfileFetcher) {
	s.profile = fetcher
}

func NewService(sessions *session.Manager, idpClient idp.Client, options ...ServiceOption) (*Service, error) {
	if sessions == nil {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "[NewService] session manager is required")
	}
	if idpClient == nil {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "[NewService] idp client is required")
	}

	service := &Service{
		sessions: sessions,
		idp:      idpClient,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(service)
	}
	return service, nil
}

// Login performs the direct credential exchange. On failure no session
// mutation occurs; on success the full tuple is set, with the user derived
// from token claims or, failing that, the submitted username.
func (s *Service) Login(ctx context.Context, username, password string) error {
	tok, err := s.idp.PasswordGrant(ctx, username, password)
	if err != nil {
		return err
	}
	user := idp.UserFromToken(tok, username)
	return s.sessions.SetAuth(user, tok.AccessToken, tok.RefreshToken, s.deadline(tok.ExpiresIn))
}

// ExchangeCode redeems an authorization code from the identity-provider
// redirect, then optionally enriches the user with a profile fetch. The
// profile fetch is best-effort: the session is already valid without it.
func (s *Service) ExchangeCode(ctx context.Context, code, redirectURI string) error {
	tok, err := s.idp.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		return err
	}
	user := idp.UserFromToken(tok, "")
	if err := s.sessions.SetAuth(user, tok.AccessToken, tok.RefreshToken, s.deadline(tok.ExpiresIn)); err != nil {
		return err
	}

	if s.profile == nil {
		return nil
	}
	enriched, err := s.profile.Profile(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("profile fetch after code exchange failed")
		return nil
	}
	snap := s.sessions.State()
	return s.sessions.SetAuth(enriched, snap.AccessToken, snap.RefreshToken, snap.ExpiresAt)
}

// Refresh exchanges the current refresh token for a new token pair and
// returns the new access token. Concurrent callers are collapsed into a
// single exchange; all of them receive the same result. The caller owns
// the failure policy: the scheduler clears the session on error, the
// gateway just propagates it.
func (s *Service) Refresh(ctx context.Context) (string, error) {
	accessToken, err, _ := s.refreshGroup.Do("refresh", func() (interface{}, error) {
		snap := s.sessions.State()
		if snap.RefreshToken == "" {
			return nil, apperrors.ErrNoRefreshToken
		}
		tok, err := s.idp.RefreshGrant(ctx, snap.RefreshToken)
		if err != nil {
			return nil, err
		}
		// The refresh rotates tokens and expiry only; the user survives.
		if err := s.sessions.SetAuth(snap.User, tok.AccessToken, tok.RefreshToken, s.deadline(tok.ExpiresIn)); err != nil {
			return nil, err
		}
		return tok.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return accessToken.(string), nil
}

// Logout revokes the refresh token at the provider (best-effort) and
// clears the session either way.
func (s *Service) Logout(ctx context.Context) error {
	snap := s.sessions.State()
	if snap.RefreshToken != "" {
		if err := s.idp.Revoke(ctx, snap.RefreshToken); err != nil {
			log.Warn().Err(err).Msg("refresh token revocation failed")
		}
	}
	return s.sessions.ClearAuth()
}

// deadline converts a relative expires_in (seconds) into the absolute
// epoch-millisecond deadline stored in the session.
func (s *Service) deadline(expiresIn int64) int64 {
	if expiresIn <= 0 {
		return 0
	}
	return s.nowTime().UnixMilli() + expiresIn*1000
}
