package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/sysauth/cmd/sysauth/cmdutil"
	"github.com/marmos91/sysauth/internal/cli/output"
	"github.com/marmos91/sysauth/pkg/config"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <host:port>",
	Short: "Show the override addresses for a host:port",
	Long: `Show which socket addresses the lookup client would dial for host:port.

Entries are listed in the order they are tried. When nothing matches the
system resolver is used.

Examples:
  sysauth resolve sysauth.example.com:443`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

// resolution is the printable result of the resolve command.
type resolution struct {
	Netloc    string   `json:"netloc" yaml:"netloc"`
	Addresses []string `json:"addresses" yaml:"addresses"`
}

func (r resolution) Headers() []string {
	return []string{"ORDER", "NETLOC", "ADDRESS"}
}

func (r resolution) Rows() [][]string {
	rows := make([][]string, 0, len(r.Addresses))
	for i, a := range r.Addresses {
		rows = append(rows, []string{strconv.Itoa(i+1), r.Netloc, a})
	}
	return rows
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmdutil.ConfigPath())
	if err != nil {
		return err
	}

	printer, err := cmdutil.GetPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	res := resolution{Netloc: args[0], Addresses: []string{}}
	for _, addr := range cfg.CreateOverrideTable().Lookup(args[0]) {
		res.Addresses = append(res.Addresses, addr.String())
	}

	if len(res.Addresses) == 0 && printer.Format() == output.FormatTable {
		printer.Warning(fmt.Sprintf("No override for %s, the system resolver will be used", args[0]))
		return nil
	}

	return printer.Print(res)
}
