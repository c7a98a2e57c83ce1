package parse

import (
	"regexp"
	"strings"
)

// HeaderParser matches "<prefix> <Label>: <Value>" comment lines and the
// "<prefix><prefix><Key>=<Value>" metadata lines of OSC tables
type HeaderParser struct {
	prefix     string
	pattern    *regexp.Regexp
	assignment *regexp.Regexp
}

// NewHeaderParser compiles the header grammar for prefix
func NewHeaderParser(prefix string) *HeaderParser {
	return &HeaderParser{
		prefix:     prefix,
		pattern:    regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `\s*([^:\s][^:]*?)\s*:\s*(.+?)\s*$`),
		assignment: regexp.MustCompile(`^(?:` + regexp.QuoteMeta(prefix) + `){2}([^=\s][^=]*?)\s*=\s*(.*?)\s*$`),
	}
}

// Parse returns the label and value of a header line. The label is the
// text before the first colon without the marker and surrounding space.
func (p *HeaderParser) Parse(line string) (label, value string, err error) {
	m := p.pattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", Fail(MalformedHeaderRow, "%q", line)
	}
	return m[1], m[2], nil
}

// ParseAssignment returns the key and value of a "##Key=Value" metadata
// line, e.g. ##ColumnVariables[00Annotation]=CAGE peak id
func (p *HeaderParser) ParseAssignment(line string) (key, value string, err error) {
	m := p.assignment.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", Fail(MalformedHeaderRow, "%q", line)
	}
	return m[1], m[2], nil
}
