package main

import "os"
import "fmt"

import "github.com/bnclabs/hmemory"
import "github.com/bnclabs/hmemory/lib"
import "github.com/bnclabs/hmemory/log"
import "github.com/spf13/cobra"

var options struct {
	allocator string
	capacity  int64
	interval  int64
	callstack bool
	noassert  bool
	loglevel  string
}

var rootCmd = &cobra.Command{
	Use:   "hmemcheck",
	Short: "Exercise the hmemory debugging allocator",
	Long: `hmemcheck runs allocation scenarios against the hmemory debugging
allocator and prints its diagnostic reports. It can also show the
policy resolved from the environment and the chunk sizes used by the
flist allocator.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetLogger(nil, map[string]interface{}{
			"log.level": options.loglevel,
			"log.file":  "",
		})
		if options.loglevel != "ignore" {
			hmemory.LogComponents("all")
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.allocator, "allocator", "libc",
		"raw allocator, libc, heap or flist")
	flags.Int64Var(&options.capacity, "capacity", 0,
		"maximum bytes obtained from raw allocator, 0 is unlimited")
	flags.Int64Var(&options.interval, "interval", 500,
		"validation interval in milliseconds, <= 0 disables worker")
	flags.BoolVar(&options.callstack, "callstack", true,
		"include call stack in reports")
	flags.BoolVar(&options.noassert, "noassert", false,
		"report errors and continue instead of aborting")
	flags.StringVar(&options.loglevel, "log", "ignore",
		"log level, ignore, error, warn, info, debug")
}

// settings for hmemory from command line options.
func settings() lib.Settings {
	return hmemory.Defaultsettings().Mixin(lib.Settings{
		"allocator":        options.allocator,
		"capacity":         options.capacity,
		"check.interval":   options.interval,
		"report.callstack": options.callstack,
		"assert.onerror":   !options.noassert,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
