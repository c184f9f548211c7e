package tool

import (
	"regexp"
	"strconv"
	"strings"
)

// ============================================================================
// Line Grammars - Declarative Output Parsing
// ============================================================================
// Each external tool reports findings in its own line format. A LineGrammar
// declares the format once (pattern, capture-group mapping, severity lookup)
// so the vocabulary is unit-testable independently of process invocation.
//
// Parsing is line-oriented and lossy: a line that does not match the pattern
// is silently skipped. Genuine failures in an unanticipated format are
// therefore invisible at this level; callers still see the raw stderr on the
// category result.

// LineGrammar maps one tool's message format onto normalized Diagnostics.
type LineGrammar struct {
	// Pattern is matched against each line. Named capture groups bind
	// fields: file, line, col, sev, msg, code. Groups other than file,
	// line, and msg are optional.
	Pattern *regexp.Regexp

	// Severities maps the tool's severity tokens (lowercased) onto the
	// shared enum. Only consulted when the pattern captures a sev group.
	Severities map[string]Severity

	// Default is used when no sev group is captured or the token is not
	// in Severities.
	Default Severity

	// PromoteErrors applies the style-tool heuristic: a message containing
	// the substring "error" is promoted to error severity. Only meaningful
	// for grammars without a sev group.
	PromoteErrors bool
}

// Parse scans raw tool output line by line and returns the diagnostics for
// every line matching the grammar. Unmatched lines yield nothing.
func (g *LineGrammar) Parse(raw string) []Diagnostic {
	var diags []Diagnostic
	for _, line := range strings.Split(raw, "\n") {
		if d, ok := g.ParseLine(line); ok {
			diags = append(diags, d)
		}
	}
	return diags
}

// ParseLine matches a single line against the grammar. The second return
// value is false when the line does not match.
func (g *LineGrammar) ParseLine(line string) (Diagnostic, bool) {
	m := g.Pattern.FindStringSubmatch(line)
	if m == nil {
		return Diagnostic{}, false
	}

	d := Diagnostic{Severity: g.Default}
	for i, name := range g.Pattern.SubexpNames() {
		if i == 0 || i >= len(m) || m[i] == "" {
			continue
		}
		switch name {
		case "file":
			d.File = m[i]
		case "line":
			d.Line, _ = strconv.Atoi(m[i])
		case "col":
			d.Column, _ = strconv.Atoi(m[i])
		case "msg":
			d.Message = strings.TrimSpace(m[i])
		case "code":
			d.Code = m[i]
		case "sev":
			if sev, ok := g.Severities[strings.ToLower(m[i])]; ok {
				d.Severity = sev
			}
		}
	}

	// Tools report 1-based positions; clamp anything degenerate.
	if d.Line < 1 {
		d.Line = 1
	}
	if d.Column < 1 {
		d.Column = 1
	}

	if g.PromoteErrors && strings.Contains(strings.ToLower(d.Message), "error") {
		d.Severity = SeverityError
	}

	return d, true
}

// SplitBySeverity partitions diagnostics into errors and everything else.
// Warnings, info, and hints all land in the second slice.
func SplitBySeverity(diags []Diagnostic) (errors, warnings []Diagnostic) {
	for _, d := range diags {
		if d.IsError() {
			errors = append(errors, d)
		} else {
			warnings = append(warnings, d)
		}
	}
	return errors, warnings
}
