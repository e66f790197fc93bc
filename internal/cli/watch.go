package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchFocus string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow all conversations live",
	Long: `Connect the push transport, reconcile all conversations, and print
incoming messages as they arrive. Messages for the focused conversation
(--focus) are shown inline without raising a notification, mirroring how
the app suppresses notifications for the conversation being viewed.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchFocus, "focus", "f", "", "conversation id to treat as currently viewed")
}

// printNotifier renders notifications straight to the terminal.
type printNotifier struct{}

func (printNotifier) Notify(title, body string) {
	fmt.Printf("%s %s\n", defaultTheme.titleStyle().Render("["+title+"]"), body)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sub := newSubscriber()
	if err := sub.Connect(ctx); err != nil {
		return err
	}
	defer sub.Close()

	eng, _ := newEngine(sub, printNotifier{})
	if watchFocus != "" {
		eng.Focus(watchFocus)
	}

	if err := eng.Refresh(ctx); err != nil {
		return err
	}
	fmt.Println(defaultTheme.hintStyle().Render("watching... (ctrl-c to stop)"))

	err := eng.Run(ctx)

	snap := eng.Metrics().Snapshot()
	fmt.Printf("\nintegrated %d, duplicates %d, promotions %d, dropped %d\n",
		snap.Integrated, snap.Duplicates, snap.Promotions, snap.Dropped)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
