// Command voyager tails a commander's journal log and maintains a
// queryable record of explored systems, bodies, factions, missions and
// routes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starwatch/voyager/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "voyager",
	Short: "Track an explored Elite Dangerous universe from the journal log",
}

func init() {
	rootCmd.PersistentFlags().StringP("db", "", "", "path to the sqlite store (default: XDG config dir)")
	rootCmd.PersistentFlags().BoolP("debug", "", false, "enable debug logging")
}

func Execute() error {
	return rootCmd.Execute()
}

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) logging.Logger {
	level := "info"
	if debug, _ := cmd.Root().PersistentFlags().GetBool("debug"); debug {
		level = "debug"
	}
	return logging.NewDefault(level)
}
