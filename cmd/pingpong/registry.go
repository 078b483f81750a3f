package main

import (
	"fmt"

	"github.com/cuemby/hive/pkg/pingpong"
	"github.com/spf13/cobra"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Race a discovery request against a ponger's registration",
	Long: `Hosts a registry actor, a ponger that registers under a service
name, and a pinger that discovers and links to that name. Discovery is
fail-fast: depending on ordering, the pinger may or may not observe the
ponger as registered. Both outcomes are legal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("service")

		result, err := pingpong.RunRegistryRace(name)
		if err != nil {
			return fmt.Errorf("scenario failed: %w", err)
		}

		fmt.Printf("✓ %s\n", result)
		return nil
	},
}

func init() {
	registryCmd.Flags().String("service", "service:ponger", "Service name the ponger registers under")
}
