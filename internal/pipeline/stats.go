package pipeline

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/biosemantics/nanoconv/pkg/nanopub"
	"github.com/biosemantics/nanoconv/pkg/parse"
)

// Stats are the counters of one run
type Stats struct {
	Lines         int
	HeaderLines   int
	DataLines     int
	RowsConverted int
	Skipped       map[parse.Reason]int
	Quads         map[nanopub.Role]int
	Duration      time.Duration
}

func newStats() Stats {
	return Stats{
		Skipped: make(map[parse.Reason]int),
		Quads:   make(map[nanopub.Role]int),
	}
}

// RowsSkipped returns the number of skipped lines over all reasons
func (s Stats) RowsSkipped() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// TotalQuads returns the number of quads handed to the sink
func (s Stats) TotalQuads() int {
	n := 0
	for _, c := range s.Quads {
		n += c
	}
	return n
}

// Fields returns the counters as log fields
func (s Stats) Fields() []zap.Field {
	fields := []zap.Field{
		zap.Int("lines", s.Lines),
		zap.Int("header_lines", s.HeaderLines),
		zap.Int("rows_converted", s.RowsConverted),
		zap.Int("rows_skipped", s.RowsSkipped()),
		zap.Int("quads", s.TotalQuads()),
		zap.Duration("duration", s.Duration),
	}

	reasons := make([]string, 0, len(s.Skipped))
	for r := range s.Skipped {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fields = append(fields, zap.Int("skipped."+r, s.Skipped[parse.Reason(r)]))
	}

	for _, role := range []nanopub.Role{
		nanopub.RoleDocument, nanopub.RoleHead, nanopub.RoleAssertion,
		nanopub.RoleProvenance, nanopub.RolePublicationInfo,
	} {
		if n, ok := s.Quads[role]; ok {
			fields = append(fields, zap.Int("quads."+string(role), n))
		}
	}
	return fields
}
