package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/initializ/untis/session"
	"github.com/initializ/untis/store"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the saved session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the saved session",
	RunE:  runWhoami,
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.login(commandContext(cmd))
	if err != nil {
		return explain(err)
	}
	infos := s.Infos()
	fmt.Fprintf(cmd.ErrOrStderr(), "Logged in as %s at %s.\n", infos.Username, infos.School)
	return a.render(infos)
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := commandContext(cmd)

	rec, err := a.store.Load(ctx, a.key())
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Not logged in.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading session store: %w", err)
	}

	creds, err := a.credentials(false)
	if err != nil {
		return err
	}
	s, err := session.Resume(creds, rec.Infos, a.options()...)
	if err == nil {
		// the server may already have expired the session
		if err := s.Logout(ctx); err != nil {
			a.logger.Warn("server logout failed", map[string]any{"error": err})
		}
	}
	if err := a.store.Delete(ctx, a.key()); err != nil {
		return fmt.Errorf("deleting saved session: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.store.Load(commandContext(cmd), a.key())
	if errors.Is(err, store.ErrNotFound) {
		if a.cfg.StoreSecret() == "" {
			return fmt.Errorf("not logged in: sessions are only kept between runs when %s is set", a.cfg.SessionStore.KeyEnv)
		}
		return fmt.Errorf("not logged in as %s at %s", a.cfg.Username, a.cfg.School)
	}
	if err != nil {
		return fmt.Errorf("reading session store: %w", err)
	}
	if !rec.Fresh(now(), a.cfg.SessionStore.MaxAge) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Session saved %s is older than %s and will be renewed on next use.\n",
			rec.SavedAt.Format("2006-01-02 15:04"), a.cfg.SessionStore.MaxAge)
	}
	return a.render(rec.Infos)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
