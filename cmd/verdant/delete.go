package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a plant",
	Long:  `Delete a plant's document. Deleting an unknown id is a no-op.`,
	Args:  cobra.ExactArgs(1),
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

		g.Plants().Delete(plant)
		fmt.Printf("Plant '%s' deleted.\n", plant.Name)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
