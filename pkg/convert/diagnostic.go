package convert

import (
	"fmt"
	"strings"
)

// Diagnostic codes
const (
	CodeUnsupportedSymbol = "unsupported-symbol"
	CodeFlagFallback      = "flag-fallback"
	CodeInvalidRotation   = "invalid-rotation"
	CodeIgnoredAttribute  = "ignored-attribute"
)

// Severity is the level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic reports a source element that was skipped or changed.
type Diagnostic struct {
	Severity Severity
	// Code identifies the kind of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Subject names the source element, e.g. a symbol basename.
	Subject string
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", d.Severity, d.Message)
	if d.Code != "" {
		fmt.Fprintf(&b, " (%s)", d.Code)
	}
	return b.String()
}

// Diagnostics collects the diagnostics of one conversion.
type Diagnostics struct {
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, subject, format string, args ...any) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Subject:  subject,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, subject, format string, args ...any) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Subject:  subject,
	})
}

// HasWarnings returns true if there are any warnings.
func (d *Diagnostics) HasWarnings() bool {
	return len(d.Warnings) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}
