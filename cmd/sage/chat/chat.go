package chatcmder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/sage/pkg/llm"
)

const chatLongDesc string = `Chat with a running sage server.

With a message argument, sends one message and prints the reply as
it streams in. Without one, starts an interactive session that reads
messages from stdin and keeps the conversation history locally so
that each request carries the recent turns.

Examples:
  sage chat http://localhost:5005 "I had a rough day"
  sage chat --relationship http://localhost:5005
  sage chat --system "You are a calm librarian." http://localhost:5005 "hi"`

const chatShortDesc string = "Chat with a sage server"

var (
	userLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render("You:")
	sageLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")).Render("Sage:")
)

type chatCommander struct {
	system       string
	relationship bool
	httpClient   *http.Client
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{httpClient: http.DefaultClient}

	cmd := &cobra.Command{
		Use:   "chat <server-url> [message]",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL := strings.TrimRight(args[0], "/")
			if len(args) == 2 {
				_, err := cmder.send(cmd.Context(), cmd, serverURL, args[1], nil)
				return err
			}
			return cmder.interactive(cmd.Context(), cmd, serverURL)
		},
	}

	cmd.Flags().StringVar(&cmder.system, "system", "", "Override the persona system prompt")
	cmd.Flags().BoolVar(&cmder.relationship, "relationship", false, "Use relationship mode")

	return cmd
}

func (c *chatCommander) interactive(ctx context.Context, cmd *cobra.Command, serverURL string) error {
	var history []llm.Turn
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprintf(cmd.OutOrStdout(), "%s ", userLabel)
		if !scanner.Scan() {
			fmt.Fprintln(cmd.OutOrStdout())
			return scanner.Err()
		}

		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "/quit" || message == "/exit" {
			return nil
		}

		reply, err := c.send(ctx, cmd, serverURL, message, history)
		if err != nil {
			return err
		}
		history = append(history,
			llm.Turn{Role: llm.RoleUser, Content: message},
			llm.Turn{Role: llm.RoleAssistant, Content: reply},
		)
	}
}

// send posts one message and copies the streamed reply to the output as it
// arrives. It returns the full reply text.
func (c *chatCommander) send(ctx context.Context, cmd *cobra.Command, serverURL, message string, history []llm.Turn) (string, error) {
	req := llm.ConversationRequest{
		Message:          message,
		History:          history,
		RelationshipMode: c.relationship,
	}
	if cmd.Flags().Changed("system") {
		req.System = &c.system
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s ", sageLabel)

	var reply strings.Builder
	if _, err := io.Copy(io.MultiWriter(out, &reply), resp.Body); err != nil {
		return "", fmt.Errorf("could not read reply: %w", err)
	}
	fmt.Fprintln(out)

	return strings.TrimSpace(reply.String()), nil
}
