package main

import (
	"context"
	"fmt"

	"github.com/aretw0/vidnote/pkg/app"
	"github.com/aretw0/vidnote/pkg/core"
	"github.com/spf13/cobra"
)

var (
	editPrompt  string
	editContent string
	editTags    string
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change the prompt, content or tags of a note",
	Long:  `Edit replaces the fields given as flags and leaves the rest as they are.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		shell := &app.Shell{Notes: openStore(false)}

		st, note, err := shell.BeginEdit(ctx, app.State{}, args[0])
		if err != nil {
			fatal("Failed to edit note", err)
		}

		e := app.Edit{Prompt: note.Prompt, Content: note.Content, Tags: core.FormatTags(note.Tags)}
		if cmd.Flags().Changed("prompt") {
			e.Prompt = editPrompt
		}
		if cmd.Flags().Changed("content") {
			e.Content = editContent
		}
		if cmd.Flags().Changed("tags") {
			e.Tags = editTags
		}

		if _, _, err := shell.SaveEdit(ctx, st, e); err != nil {
			fatal("Failed to save note", err)
		}
		fmt.Printf("Note updated: %s\n", note.ID)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editPrompt, "prompt", "", "New prompt")
	editCmd.Flags().StringVar(&editContent, "content", "", "New content")
	editCmd.Flags().StringVar(&editTags, "tags", "", "New comma-separated tags (empty clears them)")
}
