package main

import (
	"fmt"

	"github.com/cuemby/hive/pkg/pingpong"
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Exchange direct pings with a ponger on one supervisor",
	Long: `Hosts one pinger and one ponger on a single supervisor and
exchanges --count direct (uncorrelated) ping/pong round-trips before
shutting the supervisor down.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")

		result, err := pingpong.RunBasicPingPong(count)
		if err != nil {
			return fmt.Errorf("scenario failed: %w", err)
		}

		fmt.Printf("✓ exchanged %d round-trips\n", count)
		fmt.Printf("  %s\n", result)
		return nil
	},
}

func init() {
	pingCmd.Flags().Int("count", 10, "Number of ping/pong round-trips")
}
