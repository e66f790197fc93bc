package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/chatsync-go/internal/emoji"
	"github.com/raphaelgruber/chatsync-go/internal/timeutil"
)

var historyCmd = &cobra.Command{
	Use:   "history <conversation-id>",
	Short: "Print one conversation's message history",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	id := args[0]

	eng, st := newEngine(nil, nil)
	eng.LoadHistory(cmd.Context(), id)

	conv, ok := st.Conversation(id)
	if !ok {
		return fmt.Errorf("conversation %q not found", id)
	}
	if conv.Error != "" {
		return fmt.Errorf("load history: %s", conv.Error)
	}

	var prevTime time.Time
	var prevSender string
	for _, msg := range conv.Messages {
		if timeutil.ShouldShowTimestamp(msg.CreatedAt, prevTime, msg.SenderID, prevSender) {
			stamp := timeutil.FormatMessageTimestamp(msg.CreatedAt)
			if stamp != "" {
				fmt.Println(defaultTheme.hintStyle().Render(stamp))
			}
		}
		sender := defaultTheme.senderStyle().Render(msg.SenderName + ":")
		if emoji.DisplayAsLargeEmoji(msg.Text) {
			// Emoji-only messages get their own line, the closest a
			// terminal comes to the app's oversized rendering.
			fmt.Printf("%s\n\n  %s\n\n", sender, msg.Text)
		} else {
			fmt.Printf("%s %s\n", sender, msg.Text)
		}

		prevTime = msg.CreatedAt
		prevSender = msg.SenderID
	}
	return nil
}
