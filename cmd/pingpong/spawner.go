package main

import (
	"fmt"
	"time"

	"github.com/cuemby/hive/pkg/pingpong"
	"github.com/spf13/cobra"
)

var spawnerCmd = &cobra.Command{
	Use:   "spawner",
	Short: "Restart a failing request-pinger under a fail_only spawner",
	Long: `Hosts a request-pinger under a fail_only spawner against a
ponger that drops most of its replies. Each correlator timeout shuts the
pinger down with a failure reason, and the spawner respawns it up to
--attempts times before escalating to a supervisor shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		attempts, _ := cmd.Flags().GetInt("attempts")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		result, err := pingpong.RunSpawner(attempts, timeout)
		if err != nil {
			return fmt.Errorf("scenario failed: %w", err)
		}

		fmt.Printf("✓ %s\n", result)
		return nil
	},
}

func init() {
	spawnerCmd.Flags().Int("attempts", 4, "Maximum spawn attempts before escalating")
	spawnerCmd.Flags().Duration("timeout", 50*time.Millisecond, "Correlator timeout per attempt")
}
