package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all plants",
	Long:  `List the plant collection in its view order (name descending).`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		g, err := openGarden(ctx)
		if err != nil {
			fatal("Failed to open garden", err)
		}
		defer closeGarden(g)

		viewCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		snapshots, err := g.Plants().Plants(viewCtx)
		if err != nil {
			fatal("Failed to query plants", err)
		}
		plants := <-snapshots

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(plants); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, p := range plants {
			line := fmt.Sprintf("%s  %s", p.ID, p.Name)
			if p.Species != "" {
				line += fmt.Sprintf(" (%s)", p.Species)
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
