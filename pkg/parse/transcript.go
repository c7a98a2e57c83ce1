package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// RefSeqMRNA is the accession prefix of curated RefSeq transcripts
const RefSeqMRNA = "NM_"

var transcriptPattern = regexp.MustCompile(`^(-?\d+)bp_to_(.+)_5end$`)

// TranscriptAssociation is a parsed <offset>bp_to_<ids>_5end field
type TranscriptAssociation struct {
	// Offset is the distance in base pairs to the transcript start
	Offset int64
	// Transcripts holds the transcript identifiers in input order
	Transcripts []string
}

// ParseTranscriptAssociation parses a transcript association. The NA marker
// yields a TranscriptAssociationAbsent failure.
func ParseTranscriptAssociation(s string) (TranscriptAssociation, error) {
	if s == Absent {
		return TranscriptAssociation{}, &Failure{Reason: TranscriptAssociationAbsent}
	}

	m := transcriptPattern.FindStringSubmatch(s)
	if m == nil {
		return TranscriptAssociation{}, Fail(UnrecognizedTranscriptAssociation, "%q", s)
	}

	offset, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return TranscriptAssociation{}, Fail(UnrecognizedTranscriptAssociation, "offset of %q: %v", s, err)
	}

	var ids []string
	for _, id := range strings.Split(m[2], ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return TranscriptAssociation{}, Fail(UnrecognizedTranscriptAssociation, "no transcripts in %q", s)
	}
	return TranscriptAssociation{Offset: offset, Transcripts: ids}, nil
}

// Filter returns the transcripts starting with prefix
func (t TranscriptAssociation) Filter(prefix string) []string {
	var out []string
	for _, id := range t.Transcripts {
		if strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	return out
}

// ParseIdentifierList splits a comma separated cell of "<prefix>:<id>"
// values, such as "entrezgene:100287102,entrezgene:653635", and returns the
// ids. Values with another prefix are dropped; NA yields nil.
func ParseIdentifierList(s, prefix string) []string {
	if s == "" || s == Absent {
		return nil
	}
	var ids []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		id, ok := strings.CutPrefix(v, prefix+":")
		if ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
