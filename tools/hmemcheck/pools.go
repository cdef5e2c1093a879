package main

import "fmt"

import "github.com/bnclabs/hmemory/malloc"
import "github.com/spf13/cobra"

var poolsOptions struct {
	minblock int64
	maxblock int64
}

func init() {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "Show chunk sizes and worst case utilization of flist pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tellutilization(cmd, poolsOptions.minblock, poolsOptions.maxblock)
		},
	}
	cmd.Flags().Int64Var(&poolsOptions.minblock, "minblock", 32,
		"minimum block size")
	cmd.Flags().Int64Var(&poolsOptions.maxblock, "maxblock", 1024*1024,
		"maximum block size")
	rootCmd.AddCommand(cmd)
}

func tellutilization(cmd *cobra.Command, minblock, maxblock int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	out := cmd.OutOrStdout()
	sizes := malloc.Blocksizes(minblock, maxblock)
	fmt.Fprintln(out, sizes, minblock, maxblock)
	for i, size := range sizes[1:] {
		u := (float64(sizes[i]+size) / 2.0) / float64(size)
		fmt.Fprintf(out, "size %4v, util %.2f\n", size, u)
	}
	fmt.Fprintf(out, "total %v size pools\n", len(sizes))
	return nil
}
