// Credential management: hidden key entry, probe validation, keyring storage.
package main

import (
	"fmt"
	"os"
	"strings"

	"shellsage/internal/config"
	"shellsage/internal/gemini"
	"shellsage/internal/session"
	"shellsage/internal/ux"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store and validate the API key",
	Long: `Prompts for the Gemini API key without echoing, validates it with a
probe request, and stores it in the OS keyring (or an owner-only key file
when no keyring backend is available).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print("Paste your API key (hidden input): ")
		keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}

		key := strings.TrimSpace(string(keyBytes))
		if key == "" {
			return fmt.Errorf("empty API key")
		}

		fmt.Println("Validating API key...")
		cfg, err := loadRuntimeConfig()
		if err != nil {
			return err
		}
		cfg.APIKey = key

		// The probe bypasses history; nothing is recorded anywhere.
		client := gemini.NewClient(cfg, session.NewStore("").Open(""))
		if err := client.Validate(cmd.Context()); err != nil {
			return fmt.Errorf("invalid API key: %w", err)
		}

		if err := config.StoreAPIKey(key); err != nil {
			return fmt.Errorf("failed to store key: %w", err)
		}
		fmt.Println(ux.Success("API key validated and saved!"))
		return nil
	},
}
