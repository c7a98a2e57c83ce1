package parse

import (
	"regexp"
	"strconv"
)

var locationPattern = regexp.MustCompile(`^chr(\w+):(\d+)\.\.(\d+),([+-])$`)

// Strand is the orientation of a sequence location
type Strand int

const (
	Forward Strand = iota
	Reverse
)

// String returns "forward" or "reverse"
func (s Strand) String() string {
	if s == Reverse {
		return "reverse"
	}
	return "forward"
}

// Location is a parsed chrN:start..end,strand. Start and End are inclusive.
type Location struct {
	Chromosome string
	Start      int64
	End        int64
	Strand     Strand
}

// ParseLocation parses an annotation location such as chr1:3473408..3473413,+
func ParseLocation(s string) (Location, error) {
	m := locationPattern.FindStringSubmatch(s)
	if m == nil {
		return Location{}, Fail(UnrecognizedAnnotationFormat, "%q", s)
	}

	start, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Location{}, Fail(UnrecognizedAnnotationFormat, "start of %q: %v", s, err)
	}
	end, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return Location{}, Fail(UnrecognizedAnnotationFormat, "end of %q: %v", s, err)
	}
	if start > end {
		return Location{}, Fail(UnrecognizedAnnotationFormat, "start after end in %q", s)
	}

	strand := Forward
	if m[4] == "-" {
		strand = Reverse
	}
	return Location{Chromosome: m[1], Start: start, End: end, Strand: strand}, nil
}
