package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <conversation-id> <text>...",
	Short: "Send a message",
	Long: `Send a message to a conversation. The message is applied optimistically
to local state and confirmed by the server.

Example:
  chatsync send 42 hello there`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	id := args[0]
	text := strings.Join(args[1:], " ")

	eng, _ := newEngine(nil, nil)
	eng.LoadHistory(cmd.Context(), id)

	msg, err := eng.Send(cmd.Context(), id, text)
	if err != nil {
		return err
	}
	fmt.Printf("Sent %s\n", defaultTheme.hintStyle().Render(msg.ID.String()))
	return nil
}
