// Command zivana-admin runs maintenance tasks against the site database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zivana-montessori/core/internal/config"
	"github.com/zivana-montessori/core/internal/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "zivana-admin",
		Short:         "Maintenance commands for the Zivana Montessori site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to YAML config file")

	rootCmd.AddCommand(
		migrateCmd(&configPath),
		createAdminCmd(&configPath),
		fieldsCmd(&configPath),
		previewCmd(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// openDB loads the config and connects without migrating.
func openDB(configPath string, migrate bool) (*config.AppConfig, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg, zap.NewNop(), migrate)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
