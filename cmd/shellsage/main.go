// Package main implements the shellsage CLI: natural-language requests
// turned into shell commands or explanations by Gemini, with a safety layer
// that intercepts destructive operations before execution.
package main

import (
	"fmt"
	"os"

	"shellsage/internal/config"
	"shellsage/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose     bool
	apiKeyFlag  string
	sessionName string
	runMode     bool

	// Logger
	logger *zap.Logger

	// exitCode propagates a child process exit status through main.
	exitCode int
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "shellsage [query]",
	Short: "shellsage - a CLI tutor that lives in your shell",
	Long: `shellsage turns natural-language requests into shell commands or
explanations using the Gemini API.

A free-form query streams an explanation to the terminal. With --run the
request is classified and, when it resolves to a command, executed after a
safety check. Named sessions (--session) persist conversation context
between invocations.

Examples:
  shellsage "what is a process?"                 # streaming explanation
  shellsage --run "find the largest file"        # classify and execute
  shellsage --session proj "build this project"  # with persistent context
  shellsage explain "find . -type f -size +100M"
  shellsage whatif "rm -rf ./build"`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if dir, err := config.StateDir(); err == nil {
			if err := logging.Initialize(dir); err != nil {
				logger.Warn("file logging unavailable", zap.Error(err))
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "API key override (defaults to keyring, then environment)")
	rootCmd.PersistentFlags().StringVarP(&sessionName, "session", "s", "", "named session for persistent conversation context")
	rootCmd.Flags().BoolVar(&runMode, "run", false, "classify the request and execute the resulting command")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(eli5Cmd)
	rootCmd.AddCommand(whatifCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}
