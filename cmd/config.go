package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/w2sv/filenavigator/core/config"
	"github.com/w2sv/filenavigator/core/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := config.NewManager(storage.ResolveDirs(), slog.Default())
		if err := manager.Load(); err != nil {
			return err
		}
		return yaml.NewEncoder(os.Stdout).Encode(manager.Get())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := config.NewManager(storage.ResolveDirs(), slog.Default())
		if _, err := os.Stat(manager.Path()); err == nil {
			return fmt.Errorf("config file already exists at %s", manager.Path())
		}
		if err := manager.Save(config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Println("wrote", manager.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
