package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// ExitError carries a process exit code other than 1 up to main.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewRootCmd builds the command tree. Each call returns fresh commands so
// flag state never leaks between executions.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "lathist",
		Short:   "Latency histograms from load balancer access logs",
		Version: version,
		Long: `lathist scans a directory of access logs, extracts the target processing
time of every request and prints how many requests fell into each latency
bucket. Files are read concurrently and may be gzip, bzip2 or xz compressed.`,
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			cmd.Help()
		},
	}

	root.AddCommand(newScanCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which scans observe for
// cancellation.
func ExecuteContext(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lathist %s\n", version)
		},
	}
}
