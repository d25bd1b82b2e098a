package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	verdant "github.com/growmygarden/verdant"
	"github.com/growmygarden/verdant/pkg/codec"
)

var (
	saveID          string
	saveName        string
	saveScientific  string
	saveSpecies     string
	saveNotes       string
	saveWatering    string
	saveFertilizing string
	saveTrimming    string
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update a plant",
	Long: `Create a plant, or update an existing one when --id is given.
Care intervals accept Go duration syntax ("72h") or ISO-8601 ("PT72H").`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		g, err := openGarden(ctx)
		if err != nil {
			fatal("Failed to open garden", err)
		}
		defer closeGarden(g)

		var plant verdant.Plant
		if saveID != "" {
			id, err := uuid.Parse(saveID)
			if err != nil {
				fatal("Invalid plant id", err)
			}
			plant, err = g.Plants().Get(ctx, id)
			if err != nil {
				fatal("Failed to load plant", err)
			}
		} else {
			plant = verdant.NewPlant(saveName)
		}

		if saveName != "" {
			plant.Name = saveName
		}
		if plant.Name == "" {
			fatal("Invalid plant", fmt.Errorf("--name is required for new plants"))
		}
		if cmd.Flags().Changed("scientific") {
			plant.ScientificName = saveScientific
		}
		if cmd.Flags().Changed("species") {
			plant.Species = saveSpecies
		}
		if cmd.Flags().Changed("notes") {
			plant.Notes = saveNotes
		}
		if err := applyInterval(&plant.WateringEvery, saveWatering); err != nil {
			fatal("Invalid watering interval", err)
		}
		if err := applyInterval(&plant.FertilizingEvery, saveFertilizing); err != nil {
			fatal("Invalid fertilizing interval", err)
		}
		if err := applyInterval(&plant.TrimmingEvery, saveTrimming); err != nil {
			fatal("Invalid trimming interval", err)
		}

		g.Plants().Save(plant)
		// closeGarden drains the pending write before the process exits.

		fmt.Printf("Plant '%s' saved as %s.\n", plant.Name, plant.ID)
	},
}

// applyInterval parses a care interval flag into dst, leaving it
// untouched when the flag was not set.
func applyInterval(dst *time.Duration, value string) error {
	if value == "" {
		return nil
	}
	if strings.HasPrefix(value, "P") {
		d, err := codec.ParseISODuration(value)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("interval %q is negative", value)
	}
	*dst = d
	return nil
}

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().StringVar(&saveID, "id", "", "Plant id (update an existing plant)")
	saveCmd.Flags().StringVar(&saveName, "name", "", "Plant name")
	saveCmd.Flags().StringVar(&saveScientific, "scientific", "", "Scientific name")
	saveCmd.Flags().StringVar(&saveSpecies, "species", "", "Species")
	saveCmd.Flags().StringVar(&saveNotes, "notes", "", "Free-form notes")
	saveCmd.Flags().StringVar(&saveWatering, "watering", "", "Watering interval")
	saveCmd.Flags().StringVar(&saveFertilizing, "fertilizing", "", "Fertilizing interval")
	saveCmd.Flags().StringVar(&saveTrimming, "trimming", "", "Trimming interval")
}
