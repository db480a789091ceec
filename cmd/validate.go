package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/initializ/untis/config"
)

var strict bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate untis.yaml",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	result := config.Validate(cfg)

	data, err := os.ReadFile(cfgFile)
	switch {
	case err == nil:
		errs, err := config.ValidateYAML(data)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("schema: %v", err))
		}
		for _, e := range errs {
			result.Errors = append(result.Errors, fmt.Sprintf("schema: %s", e))
		}
	case errors.Is(err, os.ErrNotExist):
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s not found; using environment and defaults only", cfgFile))
	default:
		return fmt.Errorf("reading %s: %w", cfgFile, err)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", e)
	}

	if strict && len(result.Warnings) > 0 {
		return fmt.Errorf("validation failed: %d warning(s) treated as errors in strict mode", len(result.Warnings))
	}
	if !result.IsValid() {
		return fmt.Errorf("validation failed: %d error(s)", len(result.Errors))
	}

	fmt.Println("Validation passed.")
	return nil
}
