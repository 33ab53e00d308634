package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/aretw0/vidnote/pkg/adapters/lifecycle"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes made to the store document by other processes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		svc := openStore(true)
		src := lifecycle.NewSource(svc)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to watch store", err)
		}

		fmt.Fprintln(os.Stderr, "Watching for changes (Ctrl+C to stop)...")
		for event := range src.Events() {
			notes := svc.Load(ctx)
			fmt.Printf("%s (%d notes)\n", event, len(notes))
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
