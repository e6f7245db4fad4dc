// Package commands implements the sysauth CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/sysauth/cmd/sysauth/cmdutil"
	configcmd "github.com/marmos91/sysauth/cmd/sysauth/commands/config"
	"github.com/marmos91/sysauth/pkg/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sysauth",
	Short: "sysauth - Remote passwd resolution",
	Long: `sysauth resolves passwd entries against a remote identity service.

The lookup commands run the same code path as the NSS hooks, so they are the
quickest way to check a host's configuration. The serve command runs a small
identity service backed by a YAML records file.

Use "sysauth [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Sync flags to cmdutil.Flags for subcommands
		cmdutil.Flags.ConfigPath, _ = cmd.Flags().GetString("config")
		cmdutil.Flags.LogLevel, _ = cmd.Flags().GetString("log-level")
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
		cmdutil.Flags.NoColor, _ = cmd.Flags().GetBool("no-color")
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "Client configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml|passwd)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configcmd.Cmd)
}
