package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	storePath string
	adapter   string
	envFile   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vidnote",
	Short: "Analyze videos with an AI provider and keep the results as searchable notes",
	Long: `vidnote submits a video URL to a video-understanding service, waits for
it to be indexed, asks it a question and stores the answer as a tagged note.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		// A missing .env is fine; the environment may already carry the settings.
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			slog.Warn("could not read env file", "file", envFile, "error", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "", "Note store document (default: $VIDNOTE_STORE, nearest store, or ./notes.json)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: fs or sqlite (default: by file extension)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "File to load environment variables from")
}
