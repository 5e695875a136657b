// Explanation and simulation commands: explain, eli5, whatif, fix.
package main

import (
	"fmt"
	"os"
	"strings"

	"shellsage/internal/explain"
	"shellsage/internal/simulate"
	"shellsage/internal/ux"

	"github.com/spf13/cobra"
)

var explainDetailed bool

var explainCmd = &cobra.Command{
	Use:   "explain [command]",
	Short: "Explain what a shell command does",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := explain.ModeNormal
		if explainDetailed {
			mode = explain.ModeDetailed
		}
		return runExplain(cmd, strings.Join(args, " "), mode)
	},
}

var eli5Cmd = &cobra.Command{
	Use:   "eli5 [command]",
	Short: "Explain a command like you're five",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExplain(cmd, strings.Join(args, " "), explain.ModeELI5)
	},
}

var whatifCmd = &cobra.Command{
	Use:   "whatif [command]",
	Short: "Simulate what would happen without running the command",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		result := simulate.Simulate(cmd.Context(), client, strings.Join(args, " "))

		if result.IsDestructive {
			fmt.Println()
			fmt.Println(ux.Warn("POTENTIALLY DESTRUCTIVE COMMAND!"))
		}
		for _, warning := range result.Warnings {
			fmt.Println(ux.Warn(warning))
		}

		fmt.Println()
		fmt.Println("Simulation:")
		fmt.Println(ux.RenderMarkdown(result.PredictedText))

		if len(result.FilesAffected) > 0 {
			fmt.Println("Files affected:")
			for _, file := range result.FilesAffected {
				fmt.Println("  - " + file)
			}
		}
		return nil
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix [failed-command] [error-message]",
	Short: "Suggest a fix for a command that failed",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		suggestion, err := explain.FixSuggestion(cmd.Context(), client, args[0], strings.Join(args[1:], " "))
		if err != nil {
			fmt.Fprintln(os.Stderr, ux.Warn("Error: "+err.Error()))
			return err
		}
		fmt.Println()
		fmt.Println(ux.RenderMarkdown(suggestion))
		return nil
	},
}

func runExplain(cmd *cobra.Command, command string, mode explain.Mode) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	text, err := explain.Command(cmd.Context(), client, command, mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, ux.Warn("Error: "+err.Error()))
		return err
	}
	fmt.Println()
	fmt.Println(ux.RenderMarkdown(text))
	return nil
}

func init() {
	explainCmd.Flags().BoolVar(&explainDetailed, "detailed", false, "full technical walkthrough instead of the short form")
}
