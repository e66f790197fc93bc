package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chatsSearch string

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "List conversations, most recent activity first",
	Long: `Fetch all conversations and their histories, then print them ordered by
most recent activity. Unread counts come from the server.

Examples:
  chatsync chats
  chatsync chats --search standup`,
	RunE: runChats,
}

func init() {
	chatsCmd.Flags().StringVarP(&chatsSearch, "search", "s", "", "filter by title substring")
}

func runChats(cmd *cobra.Command, args []string) error {
	eng, st := newEngine(nil, nil)
	if err := eng.Refresh(cmd.Context()); err != nil {
		return err
	}

	chats := st.FilterConversations(chatsSearch)
	if len(chats) == 0 {
		fmt.Println(defaultTheme.hintStyle().Render("No chats found"))
		return nil
	}

	for _, conv := range chats {
		line := defaultTheme.titleStyle().Render(conv.Title)
		if conv.UnreadCount > 0 {
			line += " " + defaultTheme.unreadStyle().Render(fmt.Sprintf("(%d unread)", conv.UnreadCount))
		}
		fmt.Println(line)

		if last, ok := conv.LastMessage(); ok {
			preview := defaultTheme.senderStyle().Render(last.SenderName) + ": " + last.Text
			fmt.Println("  " + preview)
		} else {
			fmt.Println("  " + defaultTheme.hintStyle().Render("No messages yet"))
		}
		if conv.Error != "" {
			fmt.Println("  " + defaultTheme.errorStyle().Render(conv.Error))
		}
	}
	return nil
}
