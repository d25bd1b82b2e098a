package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/growmygarden/verdant/pkg/seed"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import plants from a YAML seed file",
	Long: `Import plants from a YAML seed file. Every entry becomes a new
plant; importing the same file twice creates duplicates.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		plants, err := seed.LoadFile(args[0])
		if err != nil {
			fatal("Failed to load seed file", err)
		}

		g, err := openGarden(ctx)
		if err != nil {
			fatal("Failed to open garden", err)
		}
		defer closeGarden(g)

		if err := g.Plants().SaveAll(ctx, plants...); err != nil {
			fatal("Failed to import plants", err)
		}

		fmt.Printf("Imported %d plants.\n", len(plants))
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
