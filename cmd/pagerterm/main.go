// Pagerterm is a handheld SSH terminal front end.
//
// It boots the device configuration (documents, secure store and the
// settings record), then runs the terminal UI with its on-device settings
// menu. Subcommands inspect and change the same state from the command line
// or over a serial console.
//
// Usage:
//
//	pagerterm [command] [flags]
//
// Running without arguments starts the terminal UI.
// See 'pagerterm --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/pagerterm/internal/config"
	"github.com/muurk/pagerterm/internal/device"
	"github.com/muurk/pagerterm/internal/logging"
	"github.com/muurk/pagerterm/internal/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	rootDir  string
	mainDoc  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "pagerterm",
	Short: "Handheld SSH terminal",
	Long: `A handheld SSH terminal that reaches its servers through a WebSocket gateway.

Configuration comes from YAML documents under the data directory, WiFi
credentials from an encrypted secure store, and user settings from a
checksummed settings record edited in the on-device menu.

If no command is specified, the terminal UI starts.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	RunE: runTerminal,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Data directory (default: OS data dir)")
	rootCmd.PersistentFlags().StringVar(&mainDoc, "config", config.DefaultMainPath, "Main configuration document, relative to the device filesystem")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $"+logging.LogLevelEnvVar+" or silent)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pagerterm %s\n", version.Full())
	},
}

// devicePaths returns the data directory selected by --root.
func devicePaths() (device.Paths, error) {
	if rootDir != "" {
		return device.Paths{Root: rootDir}, nil
	}
	return device.DefaultPaths()
}

// openDevice boots the device context from the data directory.
func openDevice() (*device.Context, error) {
	paths, err := devicePaths()
	if err != nil {
		return nil, err
	}
	ctx, err := device.Open(paths, device.WithMainDocument(mainDoc))
	if err != nil {
		return nil, fmt.Errorf("failed to open device data in %s: %w", paths.Root, err)
	}
	return ctx, nil
}
