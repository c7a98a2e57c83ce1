// Package parse holds the row grammars of the converters. Every grammar is a
// plain function returning either a typed value or a *Failure naming why the
// input was rejected. A Failure never aborts a run; the driver logs it and
// skips the row.
package parse

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Reason names why a line could not be converted
type Reason string

const (
	// MalformedHeaderRow is a header line that is not "<prefix> Label: Value"
	MalformedHeaderRow Reason = "MalformedHeaderRow"
	// UnrecognizedAnnotationFormat is a location outside chrN:start..end,strand
	UnrecognizedAnnotationFormat Reason = "UnrecognizedAnnotationFormat"
	// UnrecognizedTranscriptAssociation is a transcript field outside <n>bp_to_<ids>_5end
	UnrecognizedTranscriptAssociation Reason = "UnrecognizedTranscriptAssociation"
	// TranscriptAssociationAbsent is the literal NA transcript field
	TranscriptAssociationAbsent Reason = "TranscriptAssociationAbsent"
	// ShortRow has fewer fields than the format requires
	ShortRow Reason = "ShortRow"
	// NotARecord is a summary or section line inside the data region
	NotARecord Reason = "NotARecord"
	// UnrecognizedExpressionValue is a sample column that is not a number
	UnrecognizedExpressionValue Reason = "UnrecognizedExpressionValue"
)

// Level is the log level a skip for this reason is reported at
func (r Reason) Level() zapcore.Level {
	switch r {
	case NotARecord:
		return zapcore.DebugLevel
	case TranscriptAssociationAbsent:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// Failure is a non-fatal rejection of one line
type Failure struct {
	Reason Reason
	Detail string
}

// Error implements the error interface
func (f *Failure) Error() string {
	if f.Detail == "" {
		return string(f.Reason)
	}
	return fmt.Sprintf("%s: %s", f.Reason, f.Detail)
}

// Fail creates a Failure with a formatted detail
func Fail(reason Reason, format string, args ...interface{}) *Failure {
	return &Failure{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// AsFailure reports whether err is, or wraps, a row Failure
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
