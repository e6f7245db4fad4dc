package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marmos91/sysauth/cmd/sysauth/cmdutil"
	"github.com/marmos91/sysauth/internal/cli/prompt"
	"github.com/marmos91/sysauth/pkg/config"
)

var (
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	Long: `Write a client configuration to the --config path.

Without --interactive a sample configuration is written. With it, the base URL
and an optional address override are asked for on the terminal.

An existing file is only replaced with --force or after confirmation on a
terminal.

Examples:
  sysauth config init --config ./sysauth-client.yaml
  sudo sysauth config init --interactive`,
	RunE: runConfigInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Ask for the configuration values")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cmdutil.ConfigPath()
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	if _, err := os.Stat(path); err == nil && !initForce {
		if !interactive {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
		ok, err := prompt.Confirm(fmt.Sprintf("Overwrite %s", path), false)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("configuration file already exists at %s", path)
		}
	}

	cfg := config.GetDefaultConfig()
	if initInteractive {
		if !interactive {
			return fmt.Errorf("--interactive needs a terminal")
		}
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}

	printer, err := cmdutil.GetPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("Configuration written to %s", path))
	return nil
}

// promptConfig asks for the base URL and one optional address override.
func promptConfig(cfg *config.Config) error {
	baseURL, err := prompt.Input("Identity service URL", cfg.BaseURLs[0], validateBaseURL)
	if err != nil {
		return err
	}
	cfg.BaseURLs = []string{baseURL}
	cfg.NSSSocketAddresses = nil

	u, _ := url.Parse(baseURL)
	netloc := u.Host
	if u.Port() == "" {
		port := "443"
		if u.Scheme == "http" {
			port = "80"
		}
		netloc = u.Hostname() + ":" + port
	}

	to, err := prompt.Input(fmt.Sprintf("Fixed address for %s (IP:port, empty for DNS)", netloc), "", validateOverride)
	if err != nil {
		return err
	}
	if to != "" {
		cfg.NSSSocketAddresses = []config.AddressOverride{{From: netloc, To: to}}
	}
	return nil
}

func validateBaseURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter an http or https URL")
	}
	return nil
}

func validateOverride(s string) error {
	if s == "" {
		return nil
	}
	if _, err := netip.ParseAddrPort(s); err != nil {
		return fmt.Errorf("enter an IP:port address")
	}
	return nil
}
