package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/growmygarden/verdant/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a data directory",
	Long:  `Write a default configuration file into the data directory.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Default(dataDir)
		if storeType != "" {
			cfg.Store.Type = storeType
		}

		if err := config.Init(dataDir, cfg); err != nil {
			fatal("Failed to initialize data directory", err)
		}
		fmt.Printf("Initialized %s (store: %s).\n", dataDir, cfg.Store.Type)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
