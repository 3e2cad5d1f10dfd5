package cmd

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var sidebarCmd = &cobra.Command{
	Use:   "sidebar [version]",
	Short: "Print the resolved sidebar of every version, or of one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		version := ""
		if len(args) == 1 {
			version = args[0]
		}
		return printSidebar(cmd.OutOrStdout(), configPath, version, format)
	},
}

func init() {
	rootCmd.AddCommand(sidebarCmd)
	sidebarCmd.Flags().StringP("format", "f", "yaml", "Output format (yaml, json)")
}

func printSidebar(w io.Writer, configPath, version, format string) error {
	if format != "yaml" && format != "json" {
		return errors.Errorf("unknown format %q", format)
	}

	s, _, err := loadSite(configPath)
	if err != nil {
		return err
	}

	var tree interface{} = s.Tree
	if version != "" {
		v, ok := s.Tree.Version(version)
		if !ok {
			return errors.Errorf("version %q is not configured", version)
		}
		tree = v
	}

	var out []byte
	if format == "json" {
		out, err = json.MarshalIndent(tree, "", "  ")
		out = append(out, '\n')
	} else {
		out, err = yaml.Marshal(tree)
	}
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = w.Write(out)
	return errors.WithStack(err)
}
