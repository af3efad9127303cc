package hemis

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/uzbridge/hemis-mcp/internal/logger"
)

// Session owns the bearer token for the one configured principal. The
// token lives only in memory: the upstream is the source of truth for
// validity, so a restart simply logs in again.
type Session struct {
	creds  Credentials
	client Doer

	mu        sync.RWMutex
	token     string
	expiresAt time.Time // zero when the upstream stated no expiry

	sf  singleflight.Group
	log zerolog.Logger
}

// NewSession creates a session in the absent state. The first Token call
// performs the initial login.
func NewSession(creds Credentials, client Doer) *Session {
	return &Session{
		creds:  creds,
		client: client,
		log:    logger.WithComponent("session"),
	}
}

// Token returns the current token, logging in first when the session is
// absent or known-expired. Concurrent callers collapse into a single
// login request; all of them receive its result.
func (s *Session) Token(ctx context.Context) (string, error) {
	if tok, ok := s.current(); ok {
		return tok, nil
	}

	v, err, _ := s.sf.Do("login", func() (interface{}, error) {
		// Re-check inside the flight: this caller may have queued up just
		// after a previous flight already stored a fresh token.
		if tok, ok := s.current(); ok {
			return tok, nil
		}
		return s.login(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate discards the token the caller observed an upstream rejection
// with. A token that has since been replaced stays untouched, so a slow
// caller cannot throw away a newer login's work.
func (s *Session) Invalidate(used string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if used == "" || s.token != used {
		return
	}
	s.token = ""
	s.expiresAt = time.Time{}
	s.log.Debug().Msg("session invalidated")
}

// current reads the token under the lock. Tokens with unknown expiry are
// used optimistically until the upstream rejects them.
func (s *Session) current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", false
	}
	if !s.expiresAt.IsZero() && !time.Now().Before(s.expiresAt) {
		return "", false
	}
	return s.token, true
}

// login performs one authentication request and stores the result. It is
// never retried here; the dispatcher owns the single re-login after an
// upstream rejection. The request is detached from the triggering
// caller's cancellation so that waiters on the same flight still get a
// usable session; the HTTP client timeout bounds it instead.
func (s *Session) login(ctx context.Context) (string, error) {
	resp, err := s.client.Do(context.WithoutCancel(ctx), Request{
		Op:     "login",
		Method: http.MethodPost,
		Path:   "auth/login",
		Body:   loginRequest{Login: s.creds.Login, Password: s.creds.Password},
	})
	if err != nil {
		return "", err
	}

	if resp.Status < 200 || resp.Status > 299 {
		s.log.Warn().Int("status", resp.Status).Msg("login rejected")
		return "", &Error{Sentinel: ErrAuthFailed, Operation: "login", Status: resp.Status, Message: resp.Snippet()}
	}

	env, err := resp.Envelope()
	if err != nil {
		return "", &Error{Sentinel: ErrAuthFailed, Operation: "login", Status: resp.Status, Err: err}
	}
	if !env.Success {
		s.log.Warn().Str("error", env.Error).Msg("login rejected")
		return "", &Error{Sentinel: ErrAuthFailed, Operation: "login", Status: resp.Status, Message: env.Error}
	}

	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", &Error{Sentinel: ErrAuthFailed, Operation: "login", Err: err}
	}
	if data.Token == "" {
		return "", &Error{Sentinel: ErrAuthFailed, Operation: "login", Message: "login response carried no token"}
	}

	var expires time.Time
	if data.ExpiresAt > 0 {
		expires = time.Unix(data.ExpiresAt, 0)
	}

	s.mu.Lock()
	s.token = data.Token
	s.expiresAt = expires
	s.mu.Unlock()

	evt := s.log.Info()
	if !expires.IsZero() {
		evt = evt.Time("expires", expires)
	}
	evt.Msg("login succeeded")

	return data.Token, nil
}
