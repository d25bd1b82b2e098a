package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	verdant "github.com/growmygarden/verdant"
	"github.com/growmygarden/verdant/internal/config"
)

var (
	verbose    bool
	dataDir    string
	storeType  string
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "verdant",
	Short: "A plant-care data engine with debounced writes and live views",
	Long: `Verdant keeps your plant collection as a set of documents with
conflated, debounced writes and a live ordered view. The CLI operates
on a data directory holding the store, images and configuration.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", ".", "Data directory")
	rootCmd.PersistentFlags().StringVar(&storeType, "store", "", "Storage backend (fs or sqlite), overrides config")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default <dir>/"+config.DefaultFileName+")")
}

// loadConfig resolves the effective configuration: an explicit --config
// file if given, otherwise the conventional file inside the data dir.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	return config.Load(dataDir)
}

// openGarden assembles a Garden from the data directory's config plus
// command-line overrides. Reminders stay off for one-shot commands.
func openGarden(ctx context.Context, extra ...verdant.Option) (*verdant.Garden, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	backend := cfg.Store.Type
	if storeType != "" {
		backend = storeType
	}

	opts := []verdant.Option{
		verdant.WithLogger(slog.Default()),
		verdant.WithAdapter(backend),
		verdant.WithReminders(false),
	}
	if cfg.Debounce() > 0 {
		opts = append(opts, verdant.WithDebounce(cfg.Debounce()))
	}
	if cfg.ImageDebounce() > 0 {
		opts = append(opts, verdant.WithImageDebounce(cfg.ImageDebounce()))
	}
	if cfg.Store.EventBuffer > 0 {
		opts = append(opts, verdant.WithEventBuffer(cfg.Store.EventBuffer))
	}
	if cfg.Store.WatchExternal {
		opts = append(opts, verdant.WithWatchExternal(true))
	}
	opts = append(opts, extra...)

	return verdant.Open(ctx, cfg.DataDir, opts...)
}

// closeGarden shuts the garden down, draining pending writes.
func closeGarden(g *verdant.Garden) {
	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := g.Close(closeCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
	}
}
