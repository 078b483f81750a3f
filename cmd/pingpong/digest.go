package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cuemby/hive/pkg/address"
	"github.com/cuemby/hive/pkg/backend"
	"github.com/cuemby/hive/pkg/digest"
	"github.com/cuemby/hive/pkg/supervisor"
	"github.com/spf13/cobra"
)

var digestCmd = &cobra.Command{
	Use:   "digest FILE",
	Short: "Digest a file in bounded chunks, interruptible by Ctrl+C",
	Long: `Reads FILE one chunk at a time, reposting a continuation message
to itself between chunks so the handler never blocks the whole locality
on the entire file. SIGINT/SIGTERM sets an early-shutdown flag the
digester checks between chunks, exercising the blocking-IO scenario's
signal-driven escape hatch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		var stop int32
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			atomic.StoreInt32(&stop, 1)
		}()

		be := backend.NewThreadBackend(nil, 200*time.Microsecond)
		sup := supervisor.New(supervisor.Config{
			Identity: "digest",
			Locality: address.NewLocality("digest"),
			Backend:  be,
		})
		be.SetLoop(sup)

		done := make(chan struct{})
		sup.OnSelfShutdown(func() { close(done) })

		sup.Spawn(digest.NewDigester(path, &stop))
		sup.Start()

		errc := make(chan error, 1)
		go func() { errc <- be.Run(context.Background()) }()

		<-done
		if err := <-errc; err != nil {
			return err
		}

		fmt.Printf("✓ %s\n", sup.ShutdownReason().Context)
		return nil
	},
}
