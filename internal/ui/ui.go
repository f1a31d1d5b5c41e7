// Package ui renders provisioning output for the terminal: per-machine
// change tables, the run summary, and the follow-up command line. Styling
// is dropped when stdout is not a terminal so the output stays pipeable.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/Stormsil/VMGenerator/internal/patcher"
)

// displayWidth clips long change values so rows stay on one line.
const displayWidth = 56

// ItemResult summarizes one queue item's fate for the run summary.
type ItemResult struct {
	Name string
	VMID int
	Err  error
}

// Renderer formats run output. Styled controls ANSI styling; NewRenderer
// picks it from whether stdout is a terminal.
type Renderer struct {
	Styled bool
}

func NewRenderer() *Renderer {
	return &Renderer{Styled: isTerminal()}
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// ChangeTable renders the field-by-field diff applied to one machine.
func (r *Renderer) ChangeTable(name string, changes []patcher.Change) string {
	var b strings.Builder
	b.WriteString(r.style(titleStyle, name) + "\n")

	if len(changes) == 0 {
		b.WriteString(r.style(dimStyle, "  no changes") + "\n")
		return b.String()
	}

	fieldWidth := len("Field")
	for _, c := range changes {
		if len(c.Field) > fieldWidth {
			fieldWidth = len(c.Field)
		}
	}

	b.WriteString(fmt.Sprintf("  %s\n", r.style(headerStyle, pad("Field", fieldWidth)+"  Old -> New")))
	for _, c := range changes {
		old := clip(c.Old)
		if old == "" {
			old = "-"
		}
		b.WriteString(fmt.Sprintf("  %s  %s -> %s\n",
			r.style(fieldStyle, pad(c.Field, fieldWidth)),
			r.style(oldStyle, old),
			r.style(newStyle, clip(c.New)),
		))
	}
	return b.String()
}

// Summary renders the per-item outcome of a finished run.
func (r *Renderer) Summary(results []ItemResult) string {
	var b strings.Builder
	b.WriteString(r.style(titleStyle, "Run summary") + "\n")

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			b.WriteString(fmt.Sprintf("  %s %s: %v\n",
				r.style(failStyle, "[!!]"), res.Name, res.Err))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s (id %d)\n",
			r.style(okStyle, "[OK]"), res.Name, res.VMID))
	}

	switch {
	case len(results) == 0:
		b.WriteString(r.style(dimStyle, "  nothing to do") + "\n")
	case failed == 0:
		b.WriteString(r.style(okStyle, fmt.Sprintf("  %d machine(s) provisioned", len(results))) + "\n")
	default:
		b.WriteString(r.style(warnStyle,
			fmt.Sprintf("  %d provisioned, %d failed", len(results)-failed, failed)) + "\n")
	}
	return b.String()
}

// Command renders the follow-up shell command for successfully
// provisioned machines.
func (r *Renderer) Command(cmd string) string {
	if cmd == "" {
		return ""
	}
	return r.style(commandStyle, cmd) + "\n"
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.Styled {
		return text
	}
	return s.Render(text)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func clip(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= displayWidth {
		return s
	}
	return s[:displayWidth-1] + "…"
}
