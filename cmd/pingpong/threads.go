package main

import (
	"fmt"

	"github.com/cuemby/hive/pkg/pingpong"
	"github.com/spf13/cobra"
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Exchange pings across two independent supervisor localities",
	Long: `Hosts a ponger and a pinger on two separate supervisors, each
driven by its own thread backend, sharing one registry for discovery.
Every message between them crosses a locality boundary and is forwarded
rather than dispatched locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")

		result, err := pingpong.RunCrossThread(count)
		if err != nil {
			return fmt.Errorf("scenario failed: %w", err)
		}

		fmt.Printf("✓ exchanged %d cross-locality round-trips\n", count)
		fmt.Printf("  %s\n", result)
		return nil
	},
}

func init() {
	threadsCmd.Flags().Int("count", 10, "Number of ping/pong round-trips")
}
