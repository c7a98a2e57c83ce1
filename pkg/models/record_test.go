package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier("#")

	lines := []struct {
		raw  string
		kind LineKind
		text string
	}{
		{"# Assembly Name:  GRCh37.p13\n", HeaderLine, "# Assembly Name:  GRCh37.p13"},
		{"1\tassembled-molecule\t1\tChromosome\tCM000663.1\t=\tNC_000001.10\tPrimary Assembly\r\n", DataLine,
			"1\tassembled-molecule\t1\tChromosome\tCM000663.1\t=\tNC_000001.10\tPrimary Assembly"},
		{"   # indented comment", HeaderLine, "# indented comment"},
		{"", DataLine, ""},
		{"##ColumnVariables[00Annotation]=CAGE peak id", HeaderLine, "##ColumnVariables[00Annotation]=CAGE peak id"},
	}

	for i, l := range lines {
		got := c.Classify(l.raw)
		assert.Equal(t, l.kind, got.Kind, "line %d", i+1)
		assert.Equal(t, l.text, got.Text, "line %d", i+1)
		assert.Equal(t, i+1, got.Number)
	}
	assert.Equal(t, len(lines), c.LineNumber(), "every line is counted")
	assert.True(t, Line{Text: ""}.IsBlank())
}

func TestClassifier_CustomPrefix(t *testing.T) {
	c := NewClassifier("//")

	assert.Equal(t, HeaderLine, c.Classify("// note").Kind)
	assert.Equal(t, DataLine, c.Classify("# not a header here").Kind)
	assert.Equal(t, "//", c.Prefix())
	assert.Equal(t, "#", NewClassifier("").Prefix())
}

func TestLineKind_String(t *testing.T) {
	assert.Equal(t, "header", HeaderLine.String())
	assert.Equal(t, "data", DataLine.String())
}
