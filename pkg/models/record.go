// Package models provides the per-line data model of a conversion run and
// the Line Classifier that routes input lines to header or data handling.
package models

import (
	"strings"
)

// LineKind tells header/comment lines apart from data rows
type LineKind int

const (
	// DataLine is any line that does not start with the header prefix
	DataLine LineKind = iota
	// HeaderLine starts with the configured header prefix
	HeaderLine
)

// String returns the kind name used in log fields
func (k LineKind) String() string {
	if k == HeaderLine {
		return "header"
	}
	return "data"
}

// Line is one classified input line. Text is already trimmed.
type Line struct {
	Kind   LineKind
	Text   string
	Number int // 1-based line number
}

// IsBlank returns true for lines with no content after trimming
func (l Line) IsBlank() bool {
	return l.Text == ""
}

// Record is one data line being converted. It exists only while its line
// is processed.
type Record struct {
	// Text is the trimmed line content
	Text string
	// LineNumber is the 1-based position of the line in the input
	LineNumber int
	// RowIndex is the 1-based index among converted rows; it is assigned
	// only once a row has parsed successfully
	RowIndex int
}

// Classifier decides header vs data for each line and counts every line
// it consumes. It is not safe for concurrent use.
type Classifier struct {
	prefix     string
	lineNumber int
}

// NewClassifier creates a classifier for the given header prefix. An empty
// prefix falls back to "#".
func NewClassifier(prefix string) *Classifier {
	if prefix == "" {
		prefix = "#"
	}
	return &Classifier{prefix: prefix}
}

// Classify trims raw and returns it as a header or data line
func (c *Classifier) Classify(raw string) Line {
	c.lineNumber++

	text := strings.TrimSpace(raw)
	kind := DataLine
	if strings.HasPrefix(text, c.prefix) {
		kind = HeaderLine
	}
	return Line{Kind: kind, Text: text, Number: c.lineNumber}
}

// LineNumber returns the number of lines consumed so far
func (c *Classifier) LineNumber() int {
	return c.lineNumber
}

// Prefix returns the header prefix
func (c *Classifier) Prefix() string {
	return c.prefix
}
