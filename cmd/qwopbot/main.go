// qwopbot plays the QWOP browser game by screen reading and key injection.
//
// Usage:
//
//	qwopbot play              - Locate the game and play a batch of runs
//	qwopbot tray              - Control the batch from a system tray menu
//	qwopbot locate            - Print the detected game origin
//	qwopbot generate          - Print random control strings
//	qwopbot ocr <image.png>   - Recognise a saved score capture
//	qwopbot runs              - Show recorded runs
//	qwopbot config            - Print the effective configuration
//
// Global flags:
//
//	--config <path>      - Config file (default search: ~/.qwopbot, ./configs, embedded)
//	--backend <name>     - native or browser
//	--db <path>          - Run history database
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qwop-bot/internal/config"
	"qwop-bot/internal/logging"
	"qwop-bot/internal/platform"
)

var (
	// Global flags
	flagConfig   string
	flagBackend  string
	flagDBPath   string
	flagLogLevel string

	// cfg is the effective configuration, loaded before every command
	cfg config.Config
)

func main() {
	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "qwopbot",
	Short: "QWOP bot - play QWOP by screen reading and key injection",
	Long: `qwopbot finds a running QWOP game on screen (or opens one in Chrome),
plays it with control strings such as "QW+qw+OP+op+", reads the distance
from the score board and records every run.

Control strings:
  Q W O P   - press the key
  q w o p   - release the key
  +         - wait one tick (100ms by default)

Examples:
  qwopbot locate
  qwopbot play --games 20 --duration 30
  qwopbot play --string "QP+++qp+WO+++wo+" --games 5
  qwopbot play --backend browser
  qwopbot runs --best`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Environment backend: native or browser (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(trayCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(ocrCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the config, applies flag overrides and starts logging
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := applyOverrides(&loaded); err != nil {
		return err
	}
	cfg = loaded

	if err := logging.Init(cfg.Log.File, cfg.Log.Level); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logging.Debugf("Config loaded from %s", cfg.Source)
	return nil
}

// applyOverrides copies explicit global flags onto c
func applyOverrides(c *config.Config) error {
	if flagBackend != "" {
		backend, err := platform.ParseBackend(flagBackend)
		if err != nil {
			return err
		}
		c.Game.Backend = string(backend)
	}
	if flagDBPath != "" {
		c.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		c.Log.Level = flagLogLevel
	}
	return nil
}
