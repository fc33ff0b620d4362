package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/tradewind/stockchat/src/theme"
)

// renderer formats CLI output with the configured theme.
type renderer struct {
	prompt   lipgloss.Style
	muted    lipgloss.Style
	errStyle lipgloss.Style
	warn     lipgloss.Style

	markdown *glamour.TermRenderer
}

func newRenderer(themeName string, renderMarkdown bool) *renderer {
	t := theme.Get(themeName)

	r := &renderer{
		prompt:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(t.TextMuted),
		errStyle: lipgloss.NewStyle().Foreground(t.Error),
		warn:     lipgloss.NewStyle().Foreground(t.Warning),
	}

	if renderMarkdown {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			r.markdown = md
		}
	}

	return r
}

// assistantMessage renders a completed assistant message, as markdown when
// available.
func (r *renderer) assistantMessage(content string) string {
	if r.markdown != nil {
		if out, err := r.markdown.Render(content); err == nil {
			return out
		}
	}
	return content + "\n"
}

func (r *renderer) promptf(format string, args ...any) string {
	return r.prompt.Render(fmt.Sprintf(format, args...))
}

func (r *renderer) mutedf(format string, args ...any) string {
	return r.muted.Render(fmt.Sprintf(format, args...))
}

func (r *renderer) errorf(format string, args ...any) string {
	return r.errStyle.Render(fmt.Sprintf(format, args...))
}

func (r *renderer) warnf(format string, args ...any) string {
	return r.warn.Render(fmt.Sprintf(format, args...))
}
