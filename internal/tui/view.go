// Package tui draws the notification inbox in a terminal.
package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"vibeconnect/internal/notifications"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#8B5CF6") // violet
	fg      = lipgloss.Color("#E8E6E3")
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2).
			Width(60)

	emptyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(60)

	avatarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(fg).
			Background(accent).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	bodyStyle  = lipgloss.NewStyle().Foreground(fg)
	quoteStyle = lipgloss.NewStyle().Italic(true).Foreground(dim)
	dimStyle   = lipgloss.NewStyle().Foreground(dim)
	badgeStyle = lipgloss.NewStyle().Bold(true).Foreground(fg).Background(danger).Padding(0, 1)
	toastStyle = lipgloss.NewStyle().Bold(true).Foreground(success)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(danger)
)

// Terminal implements notifications.View by writing styled blocks to w.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminal returns a view writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) write(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, s)
}

// Show prints the inbox header and one card per item.
func (t *Terminal) Show(items []notifications.Item, count int) {
	t.write(RenderInbox(items, count))
}

// ShowEmpty prints the empty-inbox message.
func (t *Terminal) ShowEmpty(title, body string) {
	t.write(RenderEmpty(title, body))
}

// ShowToast prints message as a one-line toast.
func (t *Terminal) ShowToast(message string) {
	t.write(toastStyle.Render(message))
}

// DismissToast is a no-op: the terminal is append-only, so a printed toast cannot be removed.
func (t *Terminal) DismissToast() {}

// ShowError prints a user-facing failure message.
func (t *Terminal) ShowError(message string) {
	t.write(errorStyle.Render("✗ " + message))
}

// RenderInbox draws the badge header followed by one card per item.
func RenderInbox(items []notifications.Item, count int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Notifications"))
	b.WriteString(" ")
	b.WriteString(badgeStyle.Render(fmt.Sprintf("%d", count)))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString(RenderItem(item))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("accept <id> · decline <id> · refresh · quit"))
	return b.String()
}

// RenderItem draws one notification card.
func RenderItem(item notifications.Item) string {
	avatar := item.Initial
	if avatar == "" {
		avatar = "◉"
	}
	lines := []string{
		avatarStyle.Render(avatar) + " " + titleStyle.Render(item.Title) + " " + dimStyle.Render(fmt.Sprintf("#%d", item.RequestID)),
		bodyStyle.Render(item.Body),
	}
	if item.Quote != "" {
		lines = append(lines, quoteStyle.Render(item.Quote))
	}
	if item.Avatar != "" {
		lines = append(lines, dimStyle.Render(item.Avatar))
	}
	if !item.SentAt.IsZero() {
		lines = append(lines, dimStyle.Render(item.SentAt.Local().Format("Jan 2 15:04")))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// RenderEmpty draws the caught-up state.
func RenderEmpty(title, body string) string {
	return emptyStyle.Render(titleStyle.Render(title) + "\n" + dimStyle.Render(body))
}
