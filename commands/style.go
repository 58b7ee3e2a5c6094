package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/d1nch8g/briefcast/engine"
	"github.com/d1nch8g/briefcast/sources"
)

var (
	primary = lipgloss.Color("#00ff9f")
	dim     = lipgloss.Color("#6e7681")
	danger  = lipgloss.Color("#ff5f87")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primary)
	stageStyle = lipgloss.NewStyle().Foreground(primary)
	dimStyle   = lipgloss.NewStyle().Foreground(dim)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(danger)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim).
			Padding(0, 1)
)

// progress prints one line per stage transition.
type progress struct {
	w    io.Writer
	last engine.Stage
}

func (p *progress) update(st engine.State) {
	if st.Stage == p.last || st.Stage == engine.StageIdle {
		p.last = st.Stage
		return
	}
	p.last = st.Stage
	fmt.Fprintf(p.w, "%s %s\n", stageStyle.Render("›"), st.Stage.Message())
}

func renderSources(srcs []sources.Source) string {
	if len(srcs) == 0 {
		return dimStyle.Render("no sources")
	}
	lines := make([]string, 0, len(srcs)+1)
	lines = append(lines, titleStyle.Render("Sources"))
	for i, s := range srcs {
		lines = append(lines, fmt.Sprintf("%d. %s %s", i+1, s.Title, dimStyle.Render(s.URI)))
	}
	return strings.Join(lines, "\n")
}

func renderTranscript(script string) string {
	return boxStyle.Width(80).Render(titleStyle.Render("Transcript") + "\n\n" + script)
}

func renderError(err error) string {
	return errorStyle.Render("✗ " + err.Error())
}
