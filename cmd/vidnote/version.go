package main

import (
	"fmt"

	"github.com/aretw0/vidnote"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vidnote",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vidnote version %s\n", vidnote.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
