package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one plant",
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

		if getJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(plant); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		fmt.Printf("%s\n", plant.Name)
		fmt.Printf("  id:          %s\n", plant.ID)
		if plant.ScientificName != "" {
			fmt.Printf("  scientific:  %s\n", plant.ScientificName)
		}
		if plant.Species != "" {
			fmt.Printf("  species:     %s\n", plant.Species)
		}
		if plant.Notes != "" {
			fmt.Printf("  notes:       %s\n", plant.Notes)
		}
		printInterval("watering", plant.WateringEvery)
		printInterval("fertilizing", plant.FertilizingEvery)
		printInterval("trimming", plant.TrimmingEvery)
		if plant.Image != nil {
			fmt.Printf("  image:       %s\n", plant.Image.HQPath())
		}
	},
}

func printInterval(label string, d time.Duration) {
	if d > 0 {
		fmt.Printf("  %-12s every %s\n", label+":", d)
	}
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().BoolVar(&getJSON, "json", false, "Output in JSON format")
}
