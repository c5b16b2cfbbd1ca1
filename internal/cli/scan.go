package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/lathist/internal/config"
	"github.com/wesleyorama2/lathist/internal/metrics"
	"github.com/wesleyorama2/lathist/internal/output"
	"github.com/wesleyorama2/lathist/internal/parser"
	"github.com/wesleyorama2/lathist/scan"
)

// scanFlags holds the command line values. Flag values only replace the
// configuration file when the flag was given explicitly.
type scanFlags struct {
	configFile string
	noColor    bool
	verbose    bool
	quiet      bool
	values     config.Config
}

func newScanCmd() *cobra.Command {
	flags := &scanFlags{values: *config.Default()}

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Build a latency histogram from the log files under path",
		Long: `Scan every file under path that matches --pattern, parse each line and
print the number of requests per 5 second latency bucket, smallest count
first, followed by the total.

Examples:
  lathist scan /var/log/alb
  lathist scan /var/log/alb --init-time 08:00 --end-time 18:00
  lathist scan /var/log/app --schema json --field '$.latency' --output json
  lathist scan --config lathist.yaml --metrics-file /var/lib/node_exporter/lathist.prom`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			configureLogging(cmd.ErrOrStderr(), flags.verbose, flags.quiet)

			cfg, err := resolveConfig(cmd, flags, args)
			if err != nil {
				return err
			}
			return runScan(cmd.Context(), cmd.OutOrStdout(), cfg, flags.noColor)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configFile, "config", "c", "", "Configuration file (YAML or JSON)")
	f.StringVar(&flags.values.InitTime, "init-time", "", "Only files stamped at or after this time of day (HH:MM[:SS])")
	f.StringVar(&flags.values.EndTime, "end-time", "", "Only files stamped before this time of day (HH:MM[:SS])")
	f.StringVarP(&flags.values.Pattern, "pattern", "p", flags.values.Pattern, "Glob selecting files below path")
	f.StringSliceVarP(&flags.values.Exclude, "exclude", "x", nil, "Glob of files to skip (repeatable)")
	f.IntVarP(&flags.values.Limit, "limit", "l", 0, "Maximum number of files to process (0 = unlimited)")
	f.StringVarP(&flags.values.Schema, "schema", "s", flags.values.Schema,
		fmt.Sprintf("Log line schema (%s)", strings.Join(parser.Schemas(), ", ")))
	f.StringVar(&flags.values.Field, "field", "", "Where the latency is found: token index for v1, JSONPath for json")
	f.StringVar(&flags.values.OnError, "on-error", flags.values.OnError, "What to do with unreadable files: abort or continue")
	f.StringVarP(&flags.values.Output, "output", "o", flags.values.Output, "Report format: text, json or yaml")
	f.BoolVar(&flags.values.Summary, "summary", false, "Add latency percentiles to the report")
	f.StringVar(&flags.values.MetricsFile, "metrics-file", "", "Write run metrics to this Prometheus textfile")
	f.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "Only log warnings and errors")

	return cmd
}

// resolveConfig merges defaults, the configuration file, explicit flags and
// the positional path, in increasing order of precedence.
func resolveConfig(cmd *cobra.Command, flags *scanFlags, args []string) (*config.Config, error) {
	cfg := config.Default()
	if flags.configFile != "" {
		loaded, err := config.LoadConfig(flags.configFile)
		if err != nil {
			return nil, errors.Wrap(err, "loading config")
		}
		cfg = loaded
	}

	v := flags.values
	overrides := map[string]func(){
		"init-time":    func() { cfg.InitTime = v.InitTime },
		"end-time":     func() { cfg.EndTime = v.EndTime },
		"pattern":      func() { cfg.Pattern = v.Pattern },
		"exclude":      func() { cfg.Exclude = v.Exclude },
		"limit":        func() { cfg.Limit = v.Limit },
		"schema":       func() { cfg.Schema = v.Schema },
		"field":        func() { cfg.Field = v.Field },
		"on-error":     func() { cfg.OnError = v.OnError },
		"output":       func() { cfg.Output = v.Output },
		"summary":      func() { cfg.Summary = v.Summary },
		"metrics-file": func() { cfg.MetricsFile = v.MetricsFile },
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	if len(args) > 0 {
		cfg.Root = args[0]
	}
	return cfg, nil
}

// runScan performs the run and writes the report to out. Progress goes to
// the log.
func runScan(ctx context.Context, out io.Writer, cfg *config.Config, noColor bool) error {
	result, err := scan.NewRunner(cfg).Run(ctx)
	if err != nil {
		return err
	}

	// Run has validated the configuration.
	format, _ := cfg.Format()
	report := result.Report(cfg.Summary)
	if err := output.NewPrinter(out, format, noColor).Print(report); err != nil {
		return errors.Wrap(err, "writing report")
	}

	if cfg.MetricsFile != "" {
		if err := metrics.Export(cfg.MetricsFile, report); err != nil {
			return err
		}
		log.WithFields(log.Fields{"run": result.RunID, "file": cfg.MetricsFile}).Debug("metrics written")
	}

	if failed := result.Summary.Failed; failed > 0 {
		return &ExitError{Code: 2, Err: fmt.Errorf("%d file(s) could not be read", failed)}
	}
	return nil
}
