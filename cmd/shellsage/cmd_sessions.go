package main

import (
	"errors"
	"fmt"

	"shellsage/internal/config"
	"shellsage/internal/session"
	"shellsage/internal/ux"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage persisted conversation sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.SessionDir()
		if err != nil {
			return err
		}
		names, err := session.NewStore(dir).List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No saved sessions.")
			return nil
		}
		fmt.Println("Saved sessions:")
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a persisted session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.SessionDir()
		if err != nil {
			return err
		}
		if err := session.NewStore(dir).Delete(args[0]); err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return fmt.Errorf("no session named %q", args[0])
			}
			return err
		}
		fmt.Println(ux.Success(fmt.Sprintf("Session %q deleted.", args[0])))
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}
