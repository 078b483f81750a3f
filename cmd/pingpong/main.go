package main

import (
	"fmt"
	"os"

	"github.com/cuemby/hive/pkg/log"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pingpong",
	Short: "Exercise the hive actor runtime end to end",
	Long: `pingpong drives the hive actor runtime through its canonical
round-trip scenarios: single-locality request/reply, the request/response
correlator's timeout path, name-registry discovery, cross-locality
forwarding, spawner-managed restarts, and a blocking-IO digest.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pingpong version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(timeoutCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(threadsCmd)
	rootCmd.AddCommand(spawnerCmd)
	rootCmd.AddCommand(digestCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
