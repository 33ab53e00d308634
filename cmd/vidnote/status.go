package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aretw0/introspection"
	"github.com/aretw0/vidnote"
	"github.com/spf13/cobra"
)

type componentStatus struct {
	Type  string `json:"type"`
	State any    `json:"state"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the note store and its storage adapter as JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := resolveStore()
		opts := storeOptions(path, true)

		repo, err := vidnote.Init(path, opts...)
		if err != nil {
			fatal("Failed to open note store", err)
		}
		svc, err := vidnote.New(path, append(opts, vidnote.WithRepository(repo))...)
		if err != nil {
			fatal("Failed to open note store", err)
		}
		svc.Load(context.Background())

		out := []componentStatus{{Type: svc.ComponentType(), State: svc.State()}}
		if c, ok := repo.(interface {
			introspection.Introspectable
			introspection.Component
		}); ok {
			out = append(out, componentStatus{Type: c.ComponentType(), State: c.State()})
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
