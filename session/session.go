// Package session implements an authenticated WebUntis session: login,
// logout, reconnecting, response caching and the typed API calls.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/initializ/untis"
	"github.com/initializ/untis/client"
	"github.com/initializ/untis/jsonrpc"
	"github.com/initializ/untis/logging"
	"github.com/initializ/untis/types"
)

// reconnectTimeout bounds a shared reconnect.
const reconnectTimeout = 30 * time.Second

// Credentials identify a user at a school.
type Credentials struct {
	Username  string
	Password  string
	Server    string
	School    string
	UserAgent string
}

func (c Credentials) validate() error {
	var missing []string
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(c.Server) == "" {
		missing = append(missing, "server")
	}
	if strings.TrimSpace(c.School) == "" {
		missing = append(missing, "school")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Session is a logged-in WebUntis session. It is safe for concurrent use.
type Session struct {
	opts  *options
	creds Credentials
	rpc   *client.Client

	reconnects singleflight.Group

	mu       sync.RWMutex
	infos    types.Infos
	loggedIn bool
	useCache bool
	cache    *client.Cache
}

// Login authenticates against the server and returns a new Session.
func Login(ctx context.Context, creds Credentials, opts ...Option) (*Session, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	s := newSession(creds, applyOptions(opts))
	infos, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	s.infos = infos
	s.loggedIn = true
	s.opts.logger.Info("untis login", map[string]any{
		"server":    infos.Server,
		"school":    infos.School,
		"username":  infos.Username,
		"person_id": infos.PersonID,
	})
	return s, nil
}

// Resume rebuilds a session from infos saved by an earlier Login. The
// session id is not checked until the first call; with auto reconnect an
// expired id is replaced transparently when creds carries the password.
func Resume(creds Credentials, infos types.Infos, opts ...Option) (*Session, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	if infos.SessionID == "" {
		return nil, fmt.Errorf("resuming session: %w", ErrNotLoggedIn)
	}
	s := newSession(creds, applyOptions(opts))
	if !strings.EqualFold(client.NormalizeServer(infos.Server), s.rpc.Server()) || !strings.EqualFold(infos.School, creds.School) {
		return nil, fmt.Errorf("resuming session: saved session belongs to %s/%s", infos.Server, infos.School)
	}
	infos.Server = s.rpc.Server()
	s.infos = infos
	s.loggedIn = true
	return s, nil
}

func newSession(creds Credentials, opts *options) *Session {
	if creds.UserAgent == "" {
		creds.UserAgent = untis.DefaultUserAgent
	}
	s := &Session{
		opts:  opts,
		creds: creds,
		rpc: client.New(client.Config{
			Server:     creds.Server,
			School:     creds.School,
			UserAgent:  creds.UserAgent,
			HTTPClient: opts.httpClient,
			Timeout:    opts.timeout,
			Logger:     opts.logger,
		}),
		useCache: !opts.noCache,
	}
	if s.useCache {
		s.cache = client.NewCache(opts.cache)
	}
	return s
}

type authParams struct {
	User     string `json:"user"`
	Password string `json:"password"`
	Client   string `json:"client"`
}

func (s *Session) authenticate(ctx context.Context) (types.Infos, error) {
	resp, err := s.rpc.Call(ctx, "", string(types.MethodLogin), authParams{
		User:     s.creds.Username,
		Password: s.creds.Password,
		Client:   s.creds.UserAgent,
	})
	if err != nil {
		var rpcErr *jsonrpc.Error
		if errors.As(err, &rpcErr) {
			return types.Infos{}, &LoginError{Username: s.creds.Username, Err: rpcErr}
		}
		return types.Infos{}, fmt.Errorf("logging in: %w", err)
	}

	var auth wireAuth
	if err := resp.Decode(&auth); err != nil {
		return types.Infos{}, fmt.Errorf("logging in: %w", err)
	}
	if auth.SessionID == "" {
		return types.Infos{}, &LoginError{Username: s.creds.Username, Err: errors.New("server returned no session id")}
	}

	infos := types.Infos{
		Username:  s.creds.Username,
		Server:    s.rpc.Server(),
		School:    s.creds.School,
		UserAgent: s.creds.UserAgent,
		SessionID: auth.SessionID,
		PersonID:  auth.PersonID,
		ClassID:   auth.KlasseID,
	}
	if auth.PersonType > 0 {
		infos.PersonType, _ = types.ElementTypeOf(auth.PersonType)
	}
	return infos, nil
}

// Logout ends the session on the server. The session is marked logged out
// and its cache emptied before the server is asked, so a failed logout
// still leaves nothing usable behind. Every later call except Reconnect
// returns ErrNotLoggedIn.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	loggedIn, sessionID := s.loggedIn, s.infos.SessionID
	s.loggedIn = false
	if s.cache != nil {
		s.cache.Purge()
	}
	s.mu.Unlock()
	if !loggedIn {
		return ErrNotLoggedIn
	}

	if _, err := s.rpc.Call(ctx, sessionID, string(types.MethodLogout), nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	s.opts.logger.Info("untis logout", map[string]any{"username": s.creds.Username})
	return nil
}

// Reconnect logs out, ignoring failures, and logs in again with the stored
// credentials. The response cache starts empty afterwards. Concurrent
// reconnects share one login, which runs to completion even when the
// caller that started it gives up.
func (s *Session) Reconnect(ctx context.Context) error {
	return s.shared(ctx, s.reconnect)
}

// renew replaces the session staleID after a not-authenticated reply.
// Nothing is done when another call has already replaced it.
func (s *Session) renew(ctx context.Context, staleID string) error {
	if s.replaced(staleID) {
		return nil
	}
	return s.shared(ctx, func(ctx context.Context) error {
		if s.replaced(staleID) {
			return nil
		}
		return s.reconnect(ctx)
	})
}

func (s *Session) replaced(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn && s.infos.SessionID != sessionID
}

func (s *Session) shared(ctx context.Context, fn func(context.Context) error) error {
	ch := s.reconnects.DoChan("reconnect", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reconnectTimeout)
		defer cancel()
		return nil, fn(rctx)
	})
	select {
	case r := <-ch:
		return r.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reconnect swaps in a fresh login. The session stays usable with its old
// id until the new one is in place.
func (s *Session) reconnect(ctx context.Context) error {
	s.mu.RLock()
	loggedIn, oldID := s.loggedIn, s.infos.SessionID
	s.mu.RUnlock()
	if loggedIn {
		if _, err := s.rpc.Call(ctx, oldID, string(types.MethodLogout), nil); err != nil {
			s.opts.logger.Debug("logout before reconnect failed", map[string]any{"error": err})
		}
	}

	infos, err := s.authenticate(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.infos = infos
	s.loggedIn = true
	if s.cache != nil {
		s.cache = client.NewCache(s.opts.cache)
	}
	s.mu.Unlock()
	s.opts.logger.Info("untis reconnect", map[string]any{"username": infos.Username})
	return nil
}

// Infos returns a copy of the session details.
func (s *Session) Infos() types.Infos {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.infos
}

// LoggedIn reports whether the session is usable.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// UseCache switches response caching on or off for later calls.
func (s *Session) UseCache(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useCache = enabled
	if enabled && s.cache == nil {
		s.cache = client.NewCache(s.opts.cache)
	}
}

// CacheUsed reports whether calls are currently served from the cache.
func (s *Session) CacheUsed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.useCache
}

// call issues method, through the cache when cached is set and caching is
// on. With auto reconnect a not-authenticated error renews the session it
// was sent with, once, and retries.
func (s *Session) call(ctx context.Context, method types.Method, params any, cached bool) (*jsonrpc.Response, error) {
	resp, sessionID, err := s.do(ctx, method, params, cached)
	if err != nil && s.opts.autoReconnect && jsonrpc.IsCode(err, jsonrpc.ErrCodeNotAuthenticated) && s.creds.Password != "" {
		s.opts.logger.Warn("untis session expired, reconnecting", map[string]any{"method": string(method)})
		if rerr := s.renew(ctx, sessionID); rerr != nil {
			return nil, fmt.Errorf("reconnecting after %s: %w", method, rerr)
		}
		resp, _, err = s.do(ctx, method, params, cached)
	}
	return resp, err
}

// do issues method with the current session id and returns the id it used.
func (s *Session) do(ctx context.Context, method types.Method, params any, cached bool) (*jsonrpc.Response, string, error) {
	s.mu.RLock()
	loggedIn, sessionID := s.loggedIn, s.infos.SessionID
	cache := s.cache
	if !s.useCache {
		cache = nil
	}
	s.mu.RUnlock()

	if !loggedIn {
		return nil, sessionID, ErrNotLoggedIn
	}

	load := func(ctx context.Context) (*jsonrpc.Response, error) {
		return s.rpc.Call(ctx, sessionID, string(method), params)
	}
	if !cached || cache == nil {
		resp, err := load(ctx)
		return resp, sessionID, err
	}

	key, err := jsonrpc.CacheKey(string(method), params)
	if err != nil {
		return nil, sessionID, err
	}
	resp, err := cache.Get(ctx, key, load)
	return resp, sessionID, err
}

// Logger returns the logger the session was configured with.
func (s *Session) Logger() logging.Logger { return s.opts.logger }
