package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/vidnote/pkg/app"
	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every note",
	Long:  `Clear asks for confirmation before emptying the store, unless --yes is given.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc := openStore(false)
		shell := &app.Shell{Notes: svc}

		count := len(svc.Notes(ctx))
		st := shell.RequestClear(app.State{})

		confirmed := clearYes
		if !confirmed {
			fmt.Printf("Delete all %d notes? Type 'yes' to confirm: ", count)
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			confirmed = strings.EqualFold(strings.TrimSpace(answer), "yes")
		}

		if _, err := shell.ConfirmClear(ctx, st, confirmed); err != nil {
			fatal("Notes not cleared", err)
		}
		fmt.Printf("Cleared %d notes.\n", count)
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")
}
