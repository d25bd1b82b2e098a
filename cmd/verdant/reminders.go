package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	verdant "github.com/growmygarden/verdant"
	"github.com/growmygarden/verdant/pkg/reminder"
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Show the care reminders the collection would arm",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		sched := reminder.NewLogScheduler(slog.Default())
		g, err := openGarden(ctx,
			verdant.WithReminders(true),
			verdant.WithScheduler(sched),
		)
		if err != nil {
			fatal("Failed to open garden", err)
		}
		defer closeGarden(g)

		keys := sched.Keys()
		if len(keys) == 0 {
			fmt.Println("No reminders armed.")
			return
		}
		for _, key := range keys {
			entry, _ := sched.Entry(key)
			fmt.Printf("%s  every %s  %s\n", key, entry.Every, entry.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(remindersCmd)
}
