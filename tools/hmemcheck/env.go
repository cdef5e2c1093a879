package main

import "fmt"

import "github.com/bnclabs/hmemory"
import "github.com/bnclabs/hmemory/lib"
import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "env",
		Short: "Show policy resolved from settings and environment",
		Long: `The env command prints the policy that would be in effect, command
line options supply the defaults and these environment variables
override them:

  hmemory_report_callstack=0|1
  hmemory_assert_on_error=0|1
  hmemory_check_interval=<milliseconds>`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			policy := hmemory.NewPolicy(settings())
			fmt.Fprintln(cmd.OutOrStdout(), lib.Prettystats(policy.Stats(), true))
		},
	})
}
