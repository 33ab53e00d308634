package main

import (
	"context"
	"fmt"

	"github.com/aretw0/vidnote/pkg/query"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Print every tag in use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openStore(true)
		for _, tag := range query.AvailableTags(svc.Notes(context.Background())) {
			fmt.Println(tag)
		}
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
