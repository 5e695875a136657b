package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"shellsage/internal/config"
	"shellsage/internal/execute"
	"shellsage/internal/gemini"
	"shellsage/internal/intent"
	"shellsage/internal/logging"
	"shellsage/internal/safety"
	"shellsage/internal/session"
	"shellsage/internal/tokens"
	"shellsage/internal/ux"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadRuntimeConfig builds the explicit configuration struct passed into
// every constructor. No component below cmd/ looks anything up ambiently.
func loadRuntimeConfig() (config.Config, error) {
	path, err := config.ConfigPath()
	if err != nil {
		return config.DefaultConfig(), err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.APIKey = config.ResolveAPIKey(apiKeyFlag)
	return cfg, nil
}

// newClient wires config, session, and remote client for one invocation.
func newClient() (*gemini.Client, error) {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key not configured; run 'shellsage auth'")
	}

	dir, err := config.SessionDir()
	if err != nil {
		return nil, err
	}
	sess := session.NewStore(dir).Open(sessionName)

	return gemini.NewClient(cfg, sess), nil
}

// tokenAdvisory surfaces context-window usage for a named session.
// Advisory only: nothing is enforced, and a failed count stays silent.
func tokenAdvisory(cmd *cobra.Command, client *gemini.Client) {
	sess := client.Session()
	if sess.Ephemeral() || sess.Len() == 0 {
		return
	}

	usage, ok := tokens.NewMonitor(client).Check(cmd.Context())
	if !ok {
		return
	}

	switch usage.Tier {
	case tokens.TierWarn:
		fmt.Fprintln(os.Stderr, ux.Warn(fmt.Sprintf(
			"WARNING: Session %q is using %.0f%% of the token limit (%d tokens).\nConsider creating a new session to avoid context overflow.",
			sess.Name(), usage.Percent, usage.Tokens)))
	case tokens.TierNotice:
		fmt.Fprintln(os.Stderr, ux.Hint(fmt.Sprintf(
			"Session %q is using %.0f%% of the token limit (%d tokens). Consider creating a new session soon.",
			sess.Name(), usage.Percent, usage.Tokens)))
	}
}

// prefs returns the preferences store, or nil when the state dir is
// unavailable. Callers treat nil as "no tracking".
func prefs() *ux.PreferencesStore {
	dir, err := config.StateDir()
	if err != nil {
		return nil
	}
	return ux.NewPreferencesStore(dir)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	query := strings.Join(args, " ")

	if p := prefs(); p != nil {
		if p.FirstRun() {
			fmt.Fprintln(os.Stderr, ux.Hint("Tip: use --session <name> to keep conversation context, and 'shellsage run' to execute the suggested command."))
		}
		p.RecordQuery()
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	tokenAdvisory(cmd, client)

	if runMode {
		return runTask(cmd, client, query)
	}
	return streamExplanation(cmd, client, query)
}

// streamExplanation is the default mode: the reply streams straight to the
// terminal as chunks arrive.
func streamExplanation(cmd *cobra.Command, client *gemini.Client, query string) error {
	prompt := query + "\n\n" + client.LanguageDirective() +
		"\n\nCRITICAL: Respond in plain text only. No markdown, no formatting."

	fmt.Println()
	_, err := client.GenerateStream(cmd.Context(), prompt, func(chunk string) {
		fmt.Print(chunk)
	})
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, ux.Warn("Error: "+err.Error()))
		return err
	}
	return nil
}

// runTask classifies the request and, when it resolves to a command,
// executes it behind the danger gate.
func runTask(cmd *cobra.Command, client *gemini.Client, query string) error {
	requestID := uuid.NewString()[:8]
	rl := logging.WithRequestID(logging.CategoryAPI, requestID)
	rl.Info("classify query_len=%d session=%q", len(query), client.Session().Name())

	resp := intent.Classify(cmd.Context(), client, query)

	switch r := resp.(type) {
	case intent.Failure:
		fmt.Fprintln(os.Stderr, ux.Warn("Error: "+r.Message))
		return fmt.Errorf("request failed")

	case intent.Explain:
		fmt.Println()
		fmt.Println(ux.RenderMarkdown(r.Text))
		return nil

	case intent.Execute:
		return executeClassified(cmd, client, r, rl)

	default:
		// Response is a sealed set; a new variant is a programming error.
		return fmt.Errorf("unhandled classification %T", resp)
	}
}

// executeClassified runs the danger gate, optional confirmation, and the
// command itself, feeding captured output back into the session.
func executeClassified(cmd *cobra.Command, client *gemini.Client, r intent.Execute, rl *logging.RequestLogger) error {
	command := strings.TrimSpace(r.Command)
	if command == "" {
		fmt.Fprintln(os.Stderr, ux.Warn("Error: model returned an empty command"))
		return fmt.Errorf("empty command")
	}

	if r.Explanation != "" {
		fmt.Println()
		fmt.Println(ux.Hint(r.Explanation))
	}

	verdict := safety.Check(command)
	if verdict.Dangerous {
		logging.Safety("blocked pending confirmation: %q rules=%v", command, verdict.Matched)
		rl.Info("danger verdict matched=%v", verdict.Matched)
		if !confirmDangerous(command) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println()
	fmt.Println(ux.Command("$ " + command))
	fmt.Println()

	result := execute.Run(command, os.Stdout)
	client.AddCommandOutput(command, result.Output)
	if p := prefs(); p != nil {
		p.RecordExecution()
	}

	rl.Info("executed exit=%d captured=%d bytes", result.ExitCode, len(result.Output))
	logger.Debug("command finished",
		zap.Int("exit_code", result.ExitCode),
		zap.Int("captured_bytes", len(result.Output)))

	exitCode = result.ExitCode
	if exitCode == execute.ExitUnknown {
		exitCode = 1
	}
	return nil
}

// confirmDangerous requires the user to type "yes" before a flagged
// command is executed.
func confirmDangerous(command string) bool {
	fmt.Println()
	fmt.Println(ux.Warn("WARNING: POTENTIALLY DANGEROUS COMMAND!"))
	fmt.Println(ux.Warn("This command may cause irreversible damage to your system or data."))
	fmt.Println("Command: " + ux.Command(command))
	fmt.Println()
	fmt.Print(ux.Hint("Type 'yes' to confirm execution: "))

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == "yes"
}

// runCmd is the subcommand form of --run.
var runCmd = &cobra.Command{
	Use:   "run [task]",
	Short: "Classify a request and execute the resulting command",
	Long: `Asks the model for the shell command matching the task, checks it
against the destructive-command rules, asks for confirmation when flagged,
then executes it and captures the output into the session context.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		tokenAdvisory(cmd, client)
		return runTask(cmd, client, strings.Join(args, " "))
	},
}
