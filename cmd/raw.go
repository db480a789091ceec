package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/initializ/untis/internal/render"
	"github.com/initializ/untis/session"
)

var importTimeCmd = &cobra.Command{
	Use:   "import-time",
	Short: "Show when the school last imported data",
	RunE:  runImportTime,
}

var callCmd = &cobra.Command{
	Use:     "call <method> [params-json]",
	Short:   "Call any JSON-RPC method and print the raw result",
	Example: "  untis call getStatusData\n  untis call getKlassen '{\"schoolyearId\": 9}'",
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runCall,
}

func runImportTime(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app, s *session.Session) error {
		t, err := s.LatestImportTime(ctx)
		if err != nil {
			return fmt.Errorf("loading import time: %w", err)
		}
		return a.render(t)
	})
}

func runCall(cmd *cobra.Command, args []string) error {
	var params any
	if len(args) == 2 {
		raw := json.RawMessage(args[1])
		if !json.Valid(raw) {
			return fmt.Errorf("params are not valid JSON: %s", args[1])
		}
		params = raw
	}

	return withSession(cmd, func(ctx context.Context, a *app, s *session.Session) error {
		resp, err := s.CustomData(ctx, args[0], params)
		if err != nil {
			return fmt.Errorf("calling %s: %w", args[0], err)
		}
		return a.renderAs(resp.Result, render.FormatJSON)
	})
}
