package config

import (
	"fmt"
	"net/netip"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/marmos91/sysauth/cmd/sysauth/cmdutil"
	"github.com/marmos91/sysauth/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the sysauth client configuration file.

Checks for syntax errors, missing required fields, and invalid values. Entries
that load but would be ignored at lookup time are reported as warnings.

Examples:
  # Validate default config
  sysauth config validate

  # Validate specific config file
  sysauth config validate --config ./sysauth-client.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := cmdutil.ConfigPath()

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", path)
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if warnings := configWarnings(cfg); len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(out, "  Base URL:        %s\n", cfg.BaseURLs[0])
	_, _ = fmt.Fprintf(out, "  Overrides:       %d\n", len(cfg.NSSSocketAddresses))
	_, _ = fmt.Fprintf(out, "  Timeout:         %s\n", cfg.Timeout)
	_, _ = fmt.Fprintf(out, "  Log level:       %s\n", cfg.Logging.Level)

	return nil
}

// configWarnings reports settings that load fine but have no effect.
func configWarnings(cfg *config.Config) []string {
	var warnings []string

	if len(cfg.BaseURLs) > 1 {
		warnings = append(warnings, fmt.Sprintf("%d base URLs configured, only the first is used", len(cfg.BaseURLs)))
	}

	if u, err := url.Parse(cfg.BaseURLs[0]); err == nil && u.Scheme == "http" {
		warnings = append(warnings, "base URL uses plain HTTP")
	}

	for i, a := range cfg.NSSSocketAddresses {
		if _, err := netip.ParseAddrPort(a.To); err != nil {
			warnings = append(warnings, fmt.Sprintf("nssSocketAddresses[%d]: %q is not an IP:port address and will be skipped", i, a.To))
		}
	}

	return warnings
}
