// Root command for the simnote CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/simnote-app/simnote/internal/paths"
)

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagFilesDir  string
	flagBackend   string
	flagJSON      bool
)

// Config values loaded from config.yaml, set by PersistentPreRunE so all
// subcommands can use them.
var (
	configDataDir  string
	configFilesDir string
	configBackend  string
)

var rootCmd = &cobra.Command{
	Use:     "simnote",
	Short:   "Simnote is a local-first journal",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configBackend = cfg.GetString(cfgKeyBackend)
		configDataDir = cfg.GetString(cfgKeyDataDir)
		configFilesDir = cfg.GetString(cfgKeyFilesDir)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory")
	rootCmd.PersistentFlags().StringVar(&flagFilesDir, "files-dir", "", "per-entry file mirror directory (empty disables the mirror)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: auto, sqlite, memory, kv")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(moodCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(clearCmd)
}

// resolveConfigDir follows the precedence chain:
// --config-dir flag > SIMNOTE_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir follows the precedence chain:
// --data-dir flag > config.yaml data_dir > SIMNOTE_DATA_DIR env > platform default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}
