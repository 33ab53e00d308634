package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/aretw0/vidnote/pkg/adapters/twelvelabs"
	"github.com/aretw0/vidnote/pkg/app"
	"github.com/aretw0/vidnote/pkg/core"
	"github.com/aretw0/vidnote/pkg/ingest"
	"github.com/aretw0/vidnote/pkg/videourl"
	"github.com/spf13/cobra"
)

var (
	addPrompt       string
	addTags         string
	addPollInterval time.Duration
	addMaxWait      time.Duration
	addNoProbe      bool
)

var addCmd = &cobra.Command{
	Use:   "add [url]",
	Short: "Analyze a video and store the result as a note",
	Long: `Add submits the video to the provider, polls until it is indexed,
generates text for the prompt and saves it as a note.

Requires VIDNOTE_API_KEY. VIDNOTE_API_URL overrides the API endpoint.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		provider, err := twelvelabs.New(twelvelabs.Config{
			APIKey:  os.Getenv("VIDNOTE_API_KEY"),
			BaseURL: os.Getenv("VIDNOTE_API_URL"),
			Logger:  slog.Default(),
		})
		if err != nil {
			fatal("Failed to configure provider", err)
		}

		shell := &app.Shell{
			Notes: openStore(false),
			Ingest: ingest.NewClient(provider,
				ingest.WithPolicy(ingest.Policy{PollInterval: addPollInterval, MaxWait: addMaxWait}),
				ingest.WithLogger(slog.Default()),
			),
			Logger: slog.Default(),
		}
		if !addNoProbe {
			shell.Prober = videourl.NewProber()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		_, note, err := shell.Submit(ctx, app.State{}, app.Form{
			URL:    args[0],
			Prompt: addPrompt,
			Tags:   addTags,
			Observer: func(task core.IngestionTask) {
				fmt.Fprintf(os.Stderr, "task %s: %s\n", task.TaskID, task.ProviderStatus)
			},
		})
		switch {
		case errors.Is(err, core.ErrValidation):
			fatal("Invalid video", err)
		case errors.Is(err, core.ErrTimeout):
			fatal("Gave up waiting for the provider", err)
		case err != nil:
			fatal("Failed to analyze video", err)
		}

		fmt.Printf("Note saved: %s\n\n%s\n", note.ID, note.Content)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addPrompt, "prompt", "p", app.DefaultPrompt, "Question to ask about the video")
	addCmd.Flags().StringVarP(&addTags, "tags", "t", "", "Comma-separated tags")
	addCmd.Flags().DurationVar(&addPollInterval, "poll-interval", ingest.DefaultPollInterval, "Delay between status polls")
	addCmd.Flags().DurationVar(&addMaxWait, "max-wait", ingest.DefaultMaxWait, "Give up after this long (0 waits forever)")
	addCmd.Flags().BoolVar(&addNoProbe, "no-probe", false, "Skip the reachability check")
}
