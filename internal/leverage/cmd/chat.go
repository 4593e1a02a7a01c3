package cmd

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

var chatExample = heredoc.Doc(`
	# Interactive session
	leverage chat

	# Single message mode
	leverage chat "Show me my sprint tasks"

	# Pick the backend explicitly
	leverage --provider openai chat "What should I prioritize this week?"`)

type chatOptions struct {
	root *rootOptions

	message string
}

func newChatCommand(root *rootOptions) *cobra.Command {
	o := &chatOptions{root: root}

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the assistant",
		Long: heredoc.Doc(`
			Start a conversation with the assistant.

			Without arguments an interactive session opens. With a message
			argument (or --message) the reply is printed and the command
			exits.`),
		Example: chatExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}

	cmd.Flags().StringVarP(&o.message, "message", "m", "", "Send a single message instead of opening a session.")

	return cmd
}

func (o *chatOptions) run(cmd *cobra.Command, args []string) error {
	a, err := o.root.newAgent()
	if err != nil {
		return err
	}
	defer a.Close()
	a.SetIO(o.root.In, o.root.Out)

	message := o.message
	if message == "" && len(args) > 0 {
		message = strings.Join(args, " ")
	}

	if message != "" {
		fmt.Fprintln(o.root.Out, a.Chat(cmd.Context(), message))
		return nil
	}

	return a.Interactive(cmd.Context())
}
