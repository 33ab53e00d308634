package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/vidnote/pkg/core"
	"github.com/aretw0/vidnote/pkg/query"
	"github.com/spf13/cobra"
)

var (
	listJSON   bool
	listSearch string
	listTags   []string
	listSource string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, optionally filtered",
	Long: `List prints the notes whose content contains --search (case-insensitive)
and that carry any of the --tag values. --source filters by a glob over the
video URL, e.g. "https://youtu.be/*".`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openStore(true)

		notes, err := query.Apply(svc.Notes(context.Background()), query.Criteria{
			Search: listSearch,
			Tags:   listTags,
			Source: listSource,
		})
		if err != nil {
			fatal("Invalid filter", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, note := range notes {
			printNote(note)
		}
	},
}

func printNote(n core.Note) {
	fmt.Printf("%s  %s  %s\n", n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.SourceURL)
	if len(n.Tags) > 0 {
		fmt.Printf("  tags: %s\n", core.FormatTags(n.Tags))
	}
	fmt.Printf("  prompt: %s\n", n.Prompt)
	for _, line := range strings.Split(strings.TrimSpace(n.Content), "\n") {
		fmt.Printf("  | %s\n", line)
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Case-insensitive text to look for in the content")
	listCmd.Flags().StringSliceVar(&listTags, "tag", nil, "Keep notes with any of these tags (repeatable)")
	listCmd.Flags().StringVar(&listSource, "source", "", "Glob over the video URL")
}
