package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/initializ/untis/config"
	"github.com/initializ/untis/internal/render"
	"github.com/initializ/untis/internal/tui"
	"github.com/initializ/untis/jsonrpc"
	"github.com/initializ/untis/logging"
	"github.com/initializ/untis/session"
	"github.com/initializ/untis/store"
)

// Replaced in tests.
var (
	lookupEnv    = os.LookupEnv
	readPassword = promptPassword
	now          = time.Now
)

// app bundles what every command needs after the config is loaded.
type app struct {
	cfg    *config.Config
	logger logging.Logger
	store  store.Store
	out    io.Writer
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile, cfgFile != config.DefaultFile, lookupEnv)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(os.Stderr, verbose)
	st, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, store: st, out: cmd.OutOrStdout()}, nil
}

// openStore returns the SQLite session store when a store secret is set and
// an in-memory store otherwise, so sessions only outlive the process when
// they can be encrypted.
func openStore(cfg *config.Config, logger logging.Logger) (store.Store, error) {
	secret := cfg.StoreSecret()
	if secret == "" {
		logger.Debug("session store disabled", map[string]any{"key_env": cfg.SessionStore.KeyEnv})
		return store.NewMemoryStore(), nil
	}
	key, err := store.DeriveKey(secret)
	if err != nil {
		return nil, fmt.Errorf("session store key: %w", err)
	}
	st, err := store.OpenSQLite(cfg.SessionStore.Path, key)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	return st, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) key() string {
	return store.Key(a.cfg.Server, a.cfg.School, a.cfg.Username)
}

// renderer honours --output, then def, then the configured output.
func (a *app) renderer(def render.Format) (*render.Renderer, error) {
	name := outputFormat
	if name == "" {
		name = string(def)
	}
	if name == "" {
		name = a.cfg.Output
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return render.New(a.out, format, tui.NewStyleSet(tui.DetectTheme(themeOverride))), nil
}

func (a *app) render(v any) error {
	return a.renderAs(v, "")
}

func (a *app) renderAs(v any, def render.Format) error {
	r, err := a.renderer(def)
	if err != nil {
		return err
	}
	return r.Render(v)
}

func (a *app) options() []session.Option {
	opts := []session.Option{
		session.WithLogger(a.logger),
		session.WithTimeout(a.cfg.Timeout),
		session.WithAutoReconnect(true),
	}
	if noCache || !a.cfg.CacheEnabled() {
		return append(opts, session.WithoutCache())
	}
	return append(opts, session.WithCache(a.cfg.CacheConfig()))
}

// credentials builds session credentials. The password is prompted for
// only when prompt is set and no configured password exists.
func (a *app) credentials(prompt bool) (session.Credentials, error) {
	creds := session.Credentials{
		Username:  a.cfg.Username,
		Server:    a.cfg.Server,
		School:    a.cfg.School,
		UserAgent: a.cfg.UserAgent,
	}
	if pw, ok := a.cfg.ResolvePassword(); ok {
		creds.Password = pw
		return creds, nil
	}
	if !prompt {
		return creds, nil
	}
	pw, err := readPassword(fmt.Sprintf("Password for %s@%s: ", creds.Username, creds.School))
	if err != nil {
		return creds, err
	}
	creds.Password = pw
	return creds, nil
}

// login always authenticates anew and saves the session.
func (a *app) login(ctx context.Context) (*session.Session, error) {
	creds, err := a.credentials(true)
	if err != nil {
		return nil, err
	}
	s, err := session.Login(ctx, creds, a.options()...)
	if err != nil {
		return nil, err
	}
	if err := a.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// connect resumes a saved session when one is fresh and logs in otherwise.
func (a *app) connect(ctx context.Context) (*session.Session, error) {
	rec, err := a.store.Load(ctx, a.key())
	switch {
	case err == nil && rec.Fresh(now(), a.cfg.SessionStore.MaxAge):
		creds, err := a.credentials(false)
		if err != nil {
			return nil, err
		}
		s, err := session.Resume(creds, rec.Infos, a.options()...)
		if err == nil {
			a.logger.Debug("resumed session", map[string]any{"saved_at": rec.SavedAt})
			return s, nil
		}
		a.logger.Warn("discarding saved session", map[string]any{"error": err})
	case err == nil:
		a.logger.Debug("saved session too old", map[string]any{"saved_at": rec.SavedAt})
	case !errors.Is(err, store.ErrNotFound):
		a.logger.Warn("reading session store", map[string]any{"error": err})
	}
	return a.login(ctx)
}

// save stores the session so later runs can resume it.
func (a *app) save(ctx context.Context, s *session.Session) error {
	if !s.LoggedIn() {
		return nil
	}
	if err := a.store.Save(ctx, store.NewRecord(s.Infos(), now())); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// withSession connects, runs fn and saves the session afterwards, since an
// automatic reconnect may have replaced the session id.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, a *app, s *session.Session) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	s, err := a.connect(ctx)
	if err != nil {
		return explain(err)
	}
	if err := fn(ctx, a, s); err != nil {
		return explain(err)
	}
	return a.save(ctx, s)
}

// explain adds a hint for errors a user can act on.
func explain(err error) error {
	var le *session.LoginError
	switch {
	case errors.As(err, &le) && le.BadCredentials():
		return fmt.Errorf("%w (check username and password)", err)
	case errors.As(err, &le) && le.Code() == jsonrpc.ErrCodeInvalidSchool:
		return fmt.Errorf("%w (check the school name)", err)
	case jsonrpc.IsCode(err, jsonrpc.ErrCodeNotAuthenticated):
		return fmt.Errorf("%w (session expired, run 'untis login')", err)
	case jsonrpc.IsCode(err, jsonrpc.ErrCodeNoRight):
		return fmt.Errorf("%w (this account may not read that data)", err)
	}
	return err
}

func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no password configured and stdin is not a terminal; set " + config.DefaultPasswordEnv)
	}
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}
