package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/marmos91/sysauth/cmd/sysauth/cmdutil"
	prommetrics "github.com/marmos91/sysauth/pkg/metrics/prometheus"
	"github.com/marmos91/sysauth/pkg/nss"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up a passwd entry",
	Long: `Look up a passwd entry through the configured identity service.

The exit status follows the lookup outcome:
  0  entry found
  2  no such user
  3  temporary failure, retrying may help
  4  service unavailable or misconfigured

Examples:
  # Look up by UID, printed like getent
  sysauth lookup uid 1000 -o passwd

  # Look up by name using a test configuration
  sysauth lookup name alice --config ./sysauth-client.yaml -o json

  # Probe from cron and publish the result to node_exporter
  sysauth lookup name probe --metrics-textfile /var/lib/node_exporter/sysauth.prom`,
}

var lookupTextfile string

var lookupUIDCmd = &cobra.Command{
	Use:   "uid <uid>",
	Short: "Look up a passwd entry by UID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uid, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid uid %q: must be an unsigned 32-bit integer", args[0])
		}
		return runLookup(cmd, func(ctx context.Context, c *nss.Client) nss.Result {
			return c.LookupByUID(ctx, uint32(uid))
		})
	},
}

var lookupNameCmd = &cobra.Command{
	Use:   "name <username>",
	Short: "Look up a passwd entry by user name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLookup(cmd, func(ctx context.Context, c *nss.Client) nss.Result {
			return c.LookupByName(ctx, args[0])
		})
	},
}

func init() {
	lookupCmd.PersistentFlags().StringVar(&lookupTextfile, "metrics-textfile", "",
		"Write lookup metrics to this file in the node_exporter textfile format")
	lookupCmd.AddCommand(lookupUIDCmd)
	lookupCmd.AddCommand(lookupNameCmd)
}

func runLookup(cmd *cobra.Command, do func(context.Context, *nss.Client) nss.Result) error {
	if err := cmdutil.InitLogger("WARN"); err != nil {
		return err
	}

	printer, err := cmdutil.GetPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	var opts []nss.Option
	var reg *prometheus.Registry
	if lookupTextfile != "" {
		// Only lookup series: node_exporter exports its own runtime metrics.
		reg = prometheus.NewRegistry()
		opts = append(opts, nss.WithMetrics(prommetrics.NewLookupMetricsWith(reg)))
	}

	result := do(cmd.Context(), nss.New(cmdutil.ConfigPath(), opts...))

	if reg != nil {
		if err := prometheus.WriteToTextfile(lookupTextfile, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	switch {
	case result.Found():
		return printer.Print(*result.Record)
	case result.Outcome == nss.OutcomeNotFound:
		return &cmdutil.ExitCodeError{Code: cmdutil.ExitNotFound}
	case result.Outcome == nss.OutcomeTemporaryFailure:
		return &cmdutil.ExitCodeError{Code: cmdutil.ExitTemporaryFailure, Message: "lookup failed temporarily, see log for details"}
	default:
		return &cmdutil.ExitCodeError{Code: cmdutil.ExitUnavailable, Message: "identity service unavailable, see log for details"}
	}
}
