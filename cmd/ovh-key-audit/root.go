package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/open-sspm/ovh-key-audit/internal/report"
)

type rootOptions struct {
	appIDs      []int64
	envFile     string
	format      string
	metricsFile string
	vaultPath   string
	vaultMount  string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	appIDs := &appIDsFlag{}

	cmd := &cobra.Command{
		Use:   "ovh-key-audit [--appid ID [ID...]]",
		Short: "Audit OVHcloud API credentials and their applications.",
		Long: "Without --appid, lists every credential whose application still exists and the\n" +
			"applications no valid credential points to. With --appid, lists every credential\n" +
			"owned by the given application ids, including those whose application is gone.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			ids, err := appIDs.resolve(args)
			if err != nil {
				return err
			}
			opts.appIDs = ids
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !report.ValidFormat(opts.format) {
				return fmt.Errorf("unknown format: %s (want one of %s)", opts.format, strings.Join(report.FormatNames(), ", "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), opts, cmd.CommandPath(), stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	appIDs.narg = flags.NArg
	flags.Var(appIDs, "appid", "search for credentials of specific application ID(s); separate multiple IDs with spaces")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file holding the OVH_* settings")
	flags.StringVar(&opts.format, "format", report.FormatText, "output format ("+strings.Join(report.FormatNames(), "|")+")")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus textfile format to this path")
	flags.StringVar(&opts.vaultPath, "vault-path", "", "read missing OVH_* settings from this Vault KV v2 secret")
	flags.StringVar(&opts.vaultMount, "vault-mount", "", "Vault KV v2 mount path (default \"secret\")")

	return cmd
}

func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}
