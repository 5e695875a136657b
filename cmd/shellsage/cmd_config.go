// Configuration commands: list, set, reset.
package main

import (
	"fmt"
	"strings"

	"shellsage/internal/config"
	"shellsage/internal/gemini"
	"shellsage/internal/session"
	"shellsage/internal/ux"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRuntimeConfig()
		if err != nil {
			return err
		}
		fmt.Println("Current configuration:")
		fmt.Printf("  Model:    %s\n", cfg.Model)
		fmt.Printf("  Language: %s\n", cfg.Language)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set key=value",
	Short: "Set model=<name> or language=<locale>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value, ok := strings.Cut(args[0], "=")
		if !ok || value == "" {
			return fmt.Errorf("usage: shellsage config set model=<name> | language=<locale>")
		}

		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		switch key {
		case "model":
			// A model change is validated with a probe before it sticks.
			cfg.APIKey = config.ResolveAPIKey(apiKeyFlag)
			if cfg.APIKey == "" {
				return fmt.Errorf("API key not configured; run 'shellsage auth' first")
			}
			probe := cfg
			probe.Model = value
			fmt.Printf("Validating model %s...\n", value)
			client := gemini.NewClient(probe, session.NewStore("").Open(""))
			if err := client.Validate(cmd.Context()); err != nil {
				return fmt.Errorf("invalid model: %w", err)
			}
			cfg.Model = value

		case "language":
			cfg.Language = value

		default:
			return fmt.Errorf("unknown config key %q (use model or language)", key)
		}

		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Println(ux.Success(fmt.Sprintf("%s set: %s", key, value)))
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset configuration to defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Println(ux.Success("Configuration reset to defaults."))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
}
