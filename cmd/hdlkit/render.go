package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/babyworm/hdlkit/internal/tool"
)

// Severity styling for terminal output.
var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func severityStyle(sev tool.Severity) lipgloss.Style {
	switch sev {
	case tool.SeverityError:
		return errorStyle
	case tool.SeverityWarning:
		return warningStyle
	case tool.SeverityInfo:
		return infoStyle
	default:
		return hintStyle
	}
}

// renderDiagnostic formats one diagnostic as file:line:col severity message [code].
func renderDiagnostic(d tool.Diagnostic) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s:%d:%d: ", d.File, d.Line, d.Column))
	b.WriteString(severityStyle(d.Severity).Render(string(d.Severity)))
	b.WriteString(" " + d.Message)
	if d.Code != "" {
		b.WriteString(" " + dimStyle.Render("["+d.Code+"]"))
	}
	return b.String()
}

func renderDiagnostics(diags []tool.Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		b.WriteString(renderDiagnostic(d))
		b.WriteByte('\n')
	}
	return b.String()
}

// renderVerdict prints PASS/FAIL markers.
func renderVerdict(ok bool, okLabel, failLabel string) string {
	if ok {
		return passStyle.Render(okLabel)
	}
	return failStyle.Render(failLabel)
}
