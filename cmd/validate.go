package cmd

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and content without writing anything",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		return validateSite(cmd.OutOrStdout(), configPath, strict)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat warnings as errors")
}

func validateSite(w io.Writer, configPath string, strict bool) error {
	s, warnings, err := loadSite(configPath)
	if err != nil {
		return err
	}

	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %v\n", warning)
	}
	fmt.Fprintf(w, "%d versions, %d pages, %d warnings\n", len(s.Tree.Versions()), len(s.Routes()), len(warnings))

	if strict && len(warnings) > 0 {
		return errors.Errorf("%d warnings", len(warnings))
	}
	return nil
}
