package main

import (
	"context"
	"fmt"

	"github.com/aretw0/vidnote/pkg/app"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Delete removes a note. Deleting a note that does not exist succeeds.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		shell := &app.Shell{Notes: openStore(false)}
		if _, err := shell.Delete(context.Background(), app.State{}, args[0]); err != nil {
			fatal("Error deleting note", err)
		}
		fmt.Printf("Note deleted: %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
