package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/schemas"
)

var validateCommand = &cobra.Command{
	Use:   "validate <schema> <file>",
	Short: "Validate a JSON artifact against its schema",
	Long:  "Checks a persisted artifact file against one of the pipeline schemas: job_profile, company_brief, or edit_plan.",
	Args:  cobra.ExactArgs(2),
	RunE:  validateCmd,
}

func init() {
	rootCmd.AddCommand(validateCommand)
}

func validateCmd(_ *cobra.Command, args []string) error {
	schemaName, path := args[0], args[1]

	schemaContent, ok := schemas.ByName(schemaName)
	if !ok {
		return fmt.Errorf("unknown schema %q (expected job_profile, company_brief, or edit_plan)", schemaName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := schemas.ValidateString(schemaName, schemaContent, string(data)); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "%s does not conform to schema %s:\n", path, schemaName)
			for _, fieldErr := range verr.Errors {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			os.Exit(1)
		}
		return err
	}

	fmt.Printf("%s conforms to schema %s\n", path, schemaName)
	return nil
}
