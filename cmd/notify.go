package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/gaurav-prasanna/sheetpipe/core/notify"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FD75F")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FAFFF"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

func styleFor(kind notify.Kind) (lipgloss.Style, string) {
	switch kind {
	case notify.KindSuccess:
		return successStyle, "✓"
	case notify.KindError:
		return errorStyle, "✗"
	case notify.KindWarning:
		return warningStyle, "!"
	}
	return infoStyle, "i"
}

func printNotification(w io.Writer, n notify.Notification) {
	style, icon := styleFor(n.Kind)
	fmt.Fprintln(w, style.Render(icon+" "+n.Message))
}
