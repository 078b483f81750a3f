package main

import (
	"fmt"
	"time"

	"github.com/cuemby/hive/pkg/pingpong"
	"github.com/spf13/cobra"
)

var timeoutCmd = &cobra.Command{
	Use:   "timeout",
	Short: "Send one correlated ping against a reply-dropping ponger",
	Long: `Hosts a pinger and a ponger that drops half its replies, sends a
single request through the request/response correlator with --timeout,
and reports whether the pong arrived before the correlator's timer
fired.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, _ := cmd.Flags().GetDuration("timeout")

		result, err := pingpong.RunRequestTimeout(timeout)
		if err != nil {
			return fmt.Errorf("scenario failed: %w", err)
		}

		fmt.Printf("✓ request resolved\n")
		fmt.Printf("  %s\n", result)
		return nil
	},
}

func init() {
	timeoutCmd.Flags().Duration("timeout", 200*time.Millisecond, "Correlator timeout")
}
