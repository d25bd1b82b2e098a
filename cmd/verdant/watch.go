package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	verdant "github.com/growmygarden/verdant"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the live plant view",
	Long: `Print the ordered plant collection every time it changes, until
interrupted. With the fs adapter and watch_external enabled, edits made
directly to the document files show up too.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, err := openGarden(ctx)
		if err != nil {
			fatal("Failed to open garden", err)
		}
		defer closeGarden(g)

		snapshots, err := g.Plants().Plants(ctx)
		if err != nil {
			fatal("Failed to query plants", err)
		}

		for snap := range snapshots {
			printSnapshot(snap)
		}
	},
}

func printSnapshot(plants []verdant.Plant) {
	fmt.Printf("--- %d plants\n", len(plants))
	for _, p := range plants {
		fmt.Printf("%s  %s\n", p.ID, p.Name)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
