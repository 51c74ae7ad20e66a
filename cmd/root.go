package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/siimots/sadamad-data/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sadamad",
	Short: "Estonian harbor register to GeoJSON",
	Long:  "Scrapes the Estonian harbor register, normalizes port records and coordinates to WGS84, and publishes them as GeoJSON, JavaScript, shapefile, and XLSX.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
