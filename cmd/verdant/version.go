package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	verdant "github.com/growmygarden/verdant"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of verdant",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("verdant version %s\n", strings.TrimSpace(verdant.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
