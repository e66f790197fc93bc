package cli

import "github.com/charmbracelet/lipgloss"

// Theme holds the color scheme for CLI output.
type Theme struct {
	Title  lipgloss.Color
	Unread lipgloss.Color
	Sender lipgloss.Color
	Hint   lipgloss.Color
	Error  lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Title:  lipgloss.Color("#5FAFD7"), // light blue
	Unread: lipgloss.Color("#00D787"), // green
	Sender: lipgloss.Color("#D7AF5F"), // amber
	Hint:   lipgloss.Color("#6C6C6C"), // dim gray
	Error:  lipgloss.Color("#FF005F"), // red
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Title).Bold(true)
}

func (t Theme) unreadStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Unread).Bold(true)
}

func (t Theme) senderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Sender)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}
