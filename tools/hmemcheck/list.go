package main

import "fmt"

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available scenarios",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, name := range scenarionames() {
				fmt.Fprintf(out, "%-12v %v\n", name, scenarios[name].description)
			}
		},
	})
}
