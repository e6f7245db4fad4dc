package config

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/sysauth/cmd/sysauth/cmdutil"
	"github.com/marmos91/sysauth/internal/cli/output"
	"github.com/marmos91/sysauth/pkg/config"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the configuration as the lookup hooks see it, defaults applied,
in the same YAML layout the file uses.`,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmdutil.ConfigPath())
	if err != nil {
		return err
	}

	return output.PrintYAML(cmd.OutOrStdout(), cfg)
}
