package promptcmder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sage/cmd/sage/wire"
	"github.com/papercomputeco/sage/pkg/config"
	"github.com/papercomputeco/sage/pkg/llm"
)

const promptLongDesc string = `Print the prompt sage would send to the engine.

Useful for checking persona selection and history windowing without
running a model. History is read from a JSON file holding a list of
{"role", "content"} objects.

Examples:
  sage prompt "I feel anxious today"
  sage prompt --relationship --history history.json "good morning"`

const promptShortDesc string = "Print the prompt for a message"

type promptCommander struct {
	configPath   string
	historyPath  string
	system       string
	relationship bool
}

func NewPromptCmd() *cobra.Command {
	cmder := &promptCommander{}

	cmd := &cobra.Command{
		Use:   "prompt [message]",
		Short: promptShortDesc,
		Long:  promptLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var message string
			if len(args) == 1 {
				message = args[0]
			}
			return cmder.run(cmd, message)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to a TOML config file")
	cmd.Flags().StringVar(&cmder.historyPath, "history", "", "Path to a JSON history file")
	cmd.Flags().StringVar(&cmder.system, "system", "", "Override the persona system prompt")
	cmd.Flags().BoolVar(&cmder.relationship, "relationship", false, "Use relationship mode")

	return cmd
}

func (c *promptCommander) run(cmd *cobra.Command, message string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	var history []llm.Turn
	if c.historyPath != "" {
		data, err := os.ReadFile(c.historyPath)
		if err != nil {
			return fmt.Errorf("could not read history: %w", err)
		}
		if err := json.Unmarshal(data, &history); err != nil {
			return fmt.Errorf("could not parse history %s: %w", c.historyPath, err)
		}
	}

	var override *string
	if cmd.Flags().Changed("system") {
		override = &c.system
	}

	system := wire.Persona(cfg).Select(override, c.relationship)
	fmt.Fprintln(cmd.OutOrStdout(), wire.PromptBuilder(cfg).Build(message, history, system))
	return nil
}
