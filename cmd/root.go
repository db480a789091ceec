// Package cmd implements the untis CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/initializ/untis"
	"github.com/initializ/untis/config"
)

var (
	cfgFile       string
	verbose       bool
	outputFormat  string
	noCache       bool
	themeOverride string

	appVersion = untis.Version
)

var rootCmd = &cobra.Command{
	Use:   "untis",
	Short: "untis: WebUntis timetables from the command line",
	Long:  "untis logs in to a WebUntis server and shows master data, timetables and raw JSON-RPC responses.",

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json or markdown (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "do not cache responses")
	rootCmd.PersistentFlags().StringVar(&themeOverride, "theme", "", "TUI color theme: dark, light, or auto")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(timetableCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(importTimeCmd)
	rootCmd.AddCommand(callCmd)
}

// SetVersionInfo sets the version and commit for display.
func SetVersionInfo(version, commit string) {
	appVersion = version
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("untis %s (commit: %s)\n", version, commit))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
