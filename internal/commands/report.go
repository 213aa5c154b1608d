package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mhpenta/avatargen"
)

type palette struct {
	title lipgloss.Style
	label lipgloss.Style
	good  lipgloss.Style
	warn  lipgloss.Style
	bad   lipgloss.Style
	muted lipgloss.Style
	box   lipgloss.Style
}

// newPalette binds styles to w so color is dropped when w is not a terminal.
func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		label: r.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Width(12),
		good:  r.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("#E0A526")),
		bad:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		muted: r.NewStyle().Foreground(lipgloss.Color("#888888")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1),
	}
}

func (p palette) row(label, value string) string {
	return p.label.Render(label) + " " + value
}

// renderSummary prints the end-of-run report.
func renderSummary(w io.Writer, s *avatargen.Summary, logPath string) {
	p := newPalette(w)

	title := "Initial generation complete"
	if s.Mode == avatargen.ModeTargeted {
		title = "Regeneration complete"
	}
	if s.Interrupted {
		title = "Run interrupted"
	}

	rows := []string{
		p.title.Render(title),
		p.row("Authors", fmt.Sprintf("%d (%d processed)", s.Total, s.Processed())),
		p.row("Generated", p.good.Render(fmt.Sprint(s.Succeeded))),
		p.row("Skipped", p.warn.Render(fmt.Sprint(s.Skipped))),
	}
	failed := fmt.Sprint(s.Failed)
	if s.Failed > 0 {
		failed = p.bad.Render(failed)
	}
	rows = append(rows,
		p.row("Failed", failed),
		p.row("Est. cost", fmt.Sprintf("$%.3f (%d × $%.3f)", s.EstimatedCost(), s.Succeeded, s.UnitPrice)),
		p.row("Duration", s.Duration().Round(time.Millisecond).String()),
	)
	if logPath != "" {
		rows = append(rows, p.row("Log", p.muted.Render(logPath)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, p.box.Render(strings.Join(rows, "\n")))

	if len(s.Errors) > 0 {
		fmt.Fprintln(w, p.bad.Render("Errors:"))
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  - %s: %v\n", e.Name, e.Err)
		}
	}

	if guidance := s.Guidance(); len(guidance) > 0 {
		fmt.Fprintln(w, p.title.Render("Next steps:"))
		for _, line := range guidance {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// renderStatus prints the catalog coverage report.
func renderStatus(w io.Writer, r *StatusReport) {
	p := newPalette(w)

	rows := []string{
		p.title.Render("Avatar status"),
		p.row("Authors", fmt.Sprint(r.Total)),
		p.row("Produced", p.good.Render(fmt.Sprint(len(r.Produced)))),
		p.row("Untracked", p.warn.Render(fmt.Sprint(len(r.Untracked)))),
		p.row("Missing", p.bad.Render(fmt.Sprint(len(r.Missing)))),
		p.row("Files", p.muted.Render(fmt.Sprintf("%d in output dir", r.OnDisk))),
	}
	fmt.Fprintln(w, p.box.Render(strings.Join(rows, "\n")))

	list := func(heading string, style lipgloss.Style, names []string) {
		if len(names) == 0 {
			return
		}
		fmt.Fprintln(w, style.Render(heading))
		for _, name := range names {
			fmt.Fprintf(w, "  - %s (%s)\n", name, avatargen.Filename(name))
		}
	}
	list("Missing:", p.bad, r.Missing)
	list("On disk but not in the manifest:", p.warn, r.Untracked)
	list("In the manifest but the file is gone:", p.warn, r.Stale)
	if len(r.Extra) > 0 {
		fmt.Fprintln(w, p.muted.Render(fmt.Sprintf("%d manifest record(s) outside this catalog range.", len(r.Extra))))
	}
}
