// Interactive console mode: a line-oriented REPL running the full
// classification pipeline per line.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"shellsage/internal/ux"

	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive console mode",
	Long: `Starts a read-eval loop. Each line goes through the classification
pipeline: commands are executed behind the safety gate, questions are
answered inline. Combine with --session to keep context between lines and
across restarts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tokenAdvisory(cmd, client)

		fmt.Println("shellsage interactive console")
		if name := client.Session().Name(); name != "" {
			fmt.Println("Session: " + ux.Success(name))
		}
		fmt.Println("Type 'exit' or 'quit' to leave")
		fmt.Println()

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(ux.PromptStyle.Render("sage > "))
			if !scanner.Scan() {
				break // EOF
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				fmt.Println("Goodbye!")
				break
			}
			if line == "clear" {
				fmt.Print("\033[2J\033[H")
				continue
			}

			// Errors inside the loop are reported, not fatal.
			if err := runTask(cmd, client, line); err != nil {
				continue
			}
			fmt.Println()
		}
		return nil
	},
}
