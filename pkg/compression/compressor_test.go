package compression

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	original := strings.Repeat("<http://rdf.biosemantics.org/nanopubs/riken/fantom5/cage_clusters/1#> {\n"+
		"  :1 rdf:type np:Nanopublication .\n}\n", 200)

	for _, alg := range []Algorithm{None, Gzip, Zstd, LZ4, Snappy, S2} {
		for _, level := range []Level{Fastest, Default, Best} {
			t.Run(string(alg), func(t *testing.T) {
				var buf bytes.Buffer
				w, err := NewWriter(&buf, alg, level)
				require.NoError(t, err)
				_, err = io.WriteString(w, original)
				require.NoError(t, err)
				require.NoError(t, w.Close())

				if alg != None {
					assert.Less(t, buf.Len(), len(original))
				}

				r, err := NewReader(&buf, alg)
				require.NoError(t, err)
				defer r.Close()

				sc := bufio.NewScanner(r)
				lines := 0
				for sc.Scan() {
					lines++
				}
				require.NoError(t, sc.Err())
				assert.Equal(t, 600, lines)
			})
		}
	}
}

func TestFromExtension(t *testing.T) {
	tests := []struct {
		name string
		alg  Algorithm
		base string
	}{
		{"out.trig.gz", Gzip, "out.trig"},
		{"out.nq.ZST", Zstd, "out.nq"},
		{"out.ttl.lz4", LZ4, "out.ttl"},
		{"out.nt.sz", Snappy, "out.nt"},
		{"s3://bucket/fantom5.trig.s2", S2, "s3://bucket/fantom5.trig"},
		{"out.trig", None, "out.trig"},
		{"-", None, "-"},
	}
	for _, tt := range tests {
		alg, base := FromExtension(tt.name)
		assert.Equal(t, tt.alg, alg, tt.name)
		assert.Equal(t, tt.base, base, tt.name)
	}
}

func TestUnsupported(t *testing.T) {
	_, err := NewWriter(io.Discard, Algorithm("brotli"), Default)
	assert.Error(t, err)
	_, err = NewReader(strings.NewReader(""), Algorithm("brotli"))
	assert.Error(t, err)
	_, err = NewReader(strings.NewReader("not gzip"), Gzip)
	assert.Error(t, err)
}
