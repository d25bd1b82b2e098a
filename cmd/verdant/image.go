package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage plant photos",
}

var imageAddCmd = &cobra.Command{
	Use:   "add [plant-id] [file]",
	Short: "Attach a photo to a plant",
	Long: `Store an image for a plant. The file is kept verbatim as the
full-quality copy and a thumbnail is derived next to it; the plant's
document is updated to reference the new pair.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id, err := uuid.Parse(args[0])
		if err != nil {
			fatal("Invalid plant id", err)
		}

		g, err := openGarden(ctx)
		if err != nil {
			fatal("Failed to open garden", err)
		}
		defer closeGarden(g)

		plant, err := g.Plants().Get(ctx, id)
		if err != nil {
			fatal("Failed to load plant", err)
		}

		ref, err := g.Images().SaveFile(args[1])
		if err != nil {
			fatal("Failed to read image", err)
		}

		plant.Image = &ref
		g.Plants().Save(plant)
		// closeGarden drains both pending writes before the process exits.

		fmt.Printf("Image %s attached to '%s'.\n", ref.ID, plant.Name)
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.AddCommand(imageAddCmd)
}
