package main

import "io"
import "os"
import "fmt"

import "github.com/bnclabs/hmemory"
import "github.com/bnclabs/hmemory/lib"
import "github.com/spf13/cobra"
import "go.uber.org/multierr"

var runArgument string

func init() {
	cmd := &cobra.Command{
		Use:   "run <scenario>...",
		Short: "Run allocation scenarios",
		Long: `The run command executes each scenario on a fresh allocator, reports
are written to stderr. Unless --noassert is given, the first detected
error aborts the process.

Example:
  hmemcheck run success-00 fail-00
  hmemcheck run overflow --noassert --callstack=false`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(args, settings(), os.Stderr, nil)
		},
	}
	cmd.Flags().StringVar(&runArgument, "arg", os.Args[0],
		"string argument used by string scenarios")
	rootCmd.AddCommand(cmd)
}

// runScenarios return the combined error of all failed scenarios.
func runScenarios(
	names []string, setts lib.Settings, out io.Writer, abort func(error)) error {

	var errs error
	for _, name := range names {
		if err := runScenario(name, setts, out, abort); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%v: %w", name, err))
		}
	}
	return errs
}

func runScenario(name string, setts lib.Settings, out io.Writer, abort func(error)) error {
	scen, ok := scenarios[name]
	if !ok {
		return fmt.Errorf("unknown scenario %q", name)
	}
	m := hmemory.New(setts).SetOutput(out).SetAbort(abort)
	err := scen.run(m, runArgument)
	return multierr.Append(err, m.Close())
}
