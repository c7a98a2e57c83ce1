package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/biosemantics/nanoconv/pkg/converters"
	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/biosemantics/nanoconv/pkg/metrics"
	"github.com/biosemantics/nanoconv/pkg/models"
	"github.com/biosemantics/nanoconv/pkg/nanopub"
	"github.com/biosemantics/nanoconv/pkg/parse"
	"github.com/biosemantics/nanoconv/pkg/testutil"
	"github.com/biosemantics/nanoconv/pkg/vocab"
)

var (
	ex      = vocab.Namespace("http://example.org/")
	hasText = ex.Must("text")
)

// lineStrategy turns "ok <text>" rows into one triple and fails the rest
// by the reason named in the row
type lineStrategy struct {
	converters.Base
	headers []string
}

func (s *lineStrategy) Subtype() string { return "lines" }

func (s *lineStrategy) Document() ([]rdf.Triple, error) {
	return []rdf.Triple{{Subj: ex.Must("doc"), Pred: vocab.Type, Obj: ex.Must("Document")}}, nil
}

func (s *lineStrategy) Header(line models.Line) ([]rdf.Triple, error) {
	s.headers = append(s.headers, line.Text)
	switch line.Text {
	case "# broken":
		return nil, parse.Fail(parse.MalformedHeaderRow, "%q", line.Text)
	case "## ignored":
		return nil, nil
	}
	return []rdf.Triple{{Subj: ex.Must("doc"), Pred: hasText, Obj: vocab.String(line.Text)}}, nil
}

func (s *lineStrategy) Parse(rec models.Record) (converters.Row, error) {
	word, rest, _ := strings.Cut(rec.Text, " ")
	switch word {
	case "ok":
		return textRow(rest), nil
	case "fatal":
		return nil, errors.New(errors.ErrorTypeInternal, "boom")
	default:
		return nil, parse.Fail(parse.Reason(word), "%s", rest)
	}
}

type textRow string

func (r textRow) Assert(np nanopub.Nanopub) ([]rdf.Triple, error) {
	return []rdf.Triple{{Subj: np.URI, Pred: hasText, Obj: vocab.String(string(r))}}, nil
}

type recordingSink struct {
	batches []batch
	closed  bool
	failAt  int
}

type batch struct {
	graph   string
	triples []rdf.Triple
}

func (s *recordingSink) Insert(_ context.Context, graph rdf.Context, triples []rdf.Triple) error {
	if s.failAt > 0 && len(s.batches)+1 == s.failAt {
		return errors.New(errors.ErrorTypeConnection, "connection reset by peer")
	}
	name := ""
	if graph != nil {
		name = graph.String()
	}
	s.batches = append(s.batches, batch{graph: name, triples: triples})
	return nil
}

func (s *recordingSink) Close(context.Context) error {
	s.closed = true
	return nil
}

func (s *recordingSink) graphs() []string {
	var out []string
	for _, b := range s.batches {
		out = append(out, b.graph)
	}
	return out
}

func newTestDriver(t *testing.T, s *recordingSink, level zapcore.Level) (*Driver, *lineStrategy, *observer.ObservedLogs) {
	t.Helper()
	logger, logs := testutil.ObservedLogger(level)

	profile, err := nanopub.LookupProfile(nanopub.ProfileNanopub20)
	require.NoError(t, err)
	run, err := nanopub.NewRunInfo(nanopub.Publication{
		DatasetURI:   "http://example.org/dataset/",
		ProcessURI:   "http://example.org/process",
		Rights:       "http://creativecommons.org/licenses/by/3.0/",
		RightsHolder: "http://example.org/holder",
		Authors:      []string{"http://example.org/author"},
	}, time.Date(2014, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	strategy := &lineStrategy{}
	assembler := nanopub.NewAssembler(vocab.Namespace("http://example.org/np/"), "lines", profile, run)
	d := NewDriver(strategy, assembler, s, Config{HeaderPrefix: "#", Metrics: metrics.NewCollector("lines")}, logger)
	return d, strategy, logs
}

func TestDriver_Run(t *testing.T) {
	s := &recordingSink{}
	d, strategy, logs := newTestDriver(t, s, zapcore.DebugLevel)

	input := strings.Join([]string{
		"# Assembly Name: test",
		"ok first",
		"",
		"ShortRow only one field",
		"   # indented header",
		"ok second",
		"NotARecord summary line",
		"TranscriptAssociationAbsent NA",
		"ok third",
	}, "\n")

	stats, err := d.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.True(t, s.closed)

	assert.Equal(t, 9, stats.Lines)
	assert.Equal(t, 2, stats.HeaderLines)
	assert.Equal(t, 3, stats.RowsConverted)
	assert.Equal(t, 3, stats.RowsSkipped())
	assert.Equal(t, 1, stats.Skipped[parse.ShortRow])
	assert.Equal(t, []string{"# Assembly Name: test", "# indented header"}, strategy.headers)

	// document, header, 4 graphs, header, 4 graphs, 4 graphs
	graphs := s.graphs()
	require.Len(t, graphs, 3+4*3)
	assert.Equal(t, []string{"", ""}, graphs[:2])
	assert.Equal(t, []string{
		"http://example.org/np/lines/1#",
		"http://example.org/np/lines/1#assertion",
		"http://example.org/np/lines/1#provenance",
		"http://example.org/np/lines/1#publicationInfo",
	}, graphs[2:6])
	assert.Equal(t, "", graphs[6], "second header goes to the default graph")

	// row indices stay contiguous across skipped rows
	assert.Equal(t, "http://example.org/np/lines/2#assertion", graphs[8])
	assert.Equal(t, "http://example.org/np/lines/3#assertion", graphs[12])

	assert.Equal(t, 3, stats.Quads[nanopub.RoleDocument], "one document triple and two header triples")
	assert.Equal(t, 12, stats.Quads[nanopub.RoleHead])
	assert.Equal(t, 3, stats.Quads[nanopub.RoleAssertion])

	assert.Equal(t, []string{"skipping row"}, testutil.MessagesAt(logs, zapcore.WarnLevel))
	assert.Equal(t, "skipping row", testutil.MessagesAt(logs, zapcore.InfoLevel)[1])
	assert.Contains(t, testutil.MessagesAt(logs, zapcore.DebugLevel), "skipping blank line")
	assert.Contains(t, testutil.MessagesAt(logs, zapcore.DebugLevel), "inserted nanopub")
}

func TestDriver_MalformedHeaderIsSkipped(t *testing.T) {
	s := &recordingSink{}
	d, _, logs := newTestDriver(t, s, zapcore.WarnLevel)

	stats, err := d.Run(context.Background(), strings.NewReader("# broken\nok row\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped[parse.MalformedHeaderRow])
	assert.Equal(t, 1, stats.RowsConverted)
	assert.Equal(t, []string{"skipping row"}, testutil.MessagesAt(logs, zapcore.WarnLevel))
}

func TestDriver_HeaderWithoutTriplesIsLogged(t *testing.T) {
	s := &recordingSink{}
	d, _, logs := newTestDriver(t, s, zapcore.DebugLevel)

	stats, err := d.Run(context.Background(), strings.NewReader("ok row\n## ignored\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.HeaderLines)
	assert.Zero(t, stats.RowsSkipped())
	assert.Equal(t, 1, stats.Quads[nanopub.RoleDocument], "only the document triple")

	entries := logs.FilterMessage("ignored header line").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(2), entries[0].ContextMap()["line"])
	assert.Equal(t, "## ignored", entries[0].ContextMap()["text"])
}

func TestDriver_FatalErrors(t *testing.T) {
	t.Run("strategy error", func(t *testing.T) {
		s := &recordingSink{}
		d, _, _ := newTestDriver(t, s, zapcore.ErrorLevel)

		stats, err := d.Run(context.Background(), strings.NewReader("ok one\nfatal\nok two\n"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
		assert.Equal(t, 1, stats.RowsConverted)
		assert.False(t, s.closed, "a failed run never finalizes its output")
	})

	t.Run("sink error", func(t *testing.T) {
		s := &recordingSink{failAt: 3}
		d, _, _ := newTestDriver(t, s, zapcore.ErrorLevel)

		_, err := d.Run(context.Background(), strings.NewReader("ok one\nok two\n"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))
	})

	t.Run("line too long", func(t *testing.T) {
		s := &recordingSink{}
		d, _, _ := newTestDriver(t, s, zapcore.ErrorLevel)

		_, err := d.Run(context.Background(), strings.NewReader("ok "+strings.Repeat("x", maxLineLength+1)))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
	})

	t.Run("cancelled", func(t *testing.T) {
		s := &recordingSink{}
		d, _, _ := newTestDriver(t, s, zapcore.ErrorLevel)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := d.Run(ctx, strings.NewReader("ok one\n"))
		require.Error(t, err)
		assert.Equal(t, 0, d.Stats().RowsConverted)
	})
}

func TestOpenInput(t *testing.T) {
	path := testutil.WriteInput(t, "plain.txt", "ok one")
	in, err := OpenInput(path)
	require.NoError(t, err)
	require.NoError(t, in.Close())

	_, err = OpenInput(path + ".missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestStats_Fields(t *testing.T) {
	stats := newStats()
	stats.Skipped[parse.ShortRow] = 2
	stats.Quads[nanopub.RoleAssertion] = 7

	keys := make([]string, 0)
	for _, f := range stats.Fields() {
		keys = append(keys, f.Key)
	}
	assert.Contains(t, keys, "skipped.ShortRow")
	assert.Contains(t, keys, "quads.assertion")
	assert.Equal(t, 2, stats.RowsSkipped())
	assert.Equal(t, 7, stats.TotalQuads())
}
