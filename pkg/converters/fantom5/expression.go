package fantom5

import (
	"strings"

	"github.com/knakk/rdf"
	"go.uber.org/zap"

	"github.com/biosemantics/nanoconv/pkg/converters"
	"github.com/biosemantics/nanoconv/pkg/models"
	"github.com/biosemantics/nanoconv/pkg/nanopub"
	"github.com/biosemantics/nanoconv/pkg/parse"
	"github.com/biosemantics/nanoconv/pkg/vocab"
)

// columnHeader starts the column-header row of an expression table
const columnHeader = "00Annotation"

// Expressions asserts the expression of a CAGE peak in every sample above
// the configured threshold. Sample libraries are taken from the column
// header row, which must precede the records.
type Expressions struct {
	table
	min float64
	// libraries holds the library id of each sample column, "" for
	// columns that name none
	libraries []string
}

// NewExpressions creates the ff_expressions strategy
func NewExpressions(opts converters.Options) (converters.Strategy, error) {
	return &Expressions{table: newTable(SubtypeExpressions, opts), min: opts.MinExpression}, nil
}

// Classify treats the 00Annotation column header as a header line
func (e *Expressions) Classify(line models.Line) models.Line {
	if line.Kind == models.DataLine && strings.HasPrefix(line.Text, columnHeader) {
		line.Kind = models.HeaderLine
	}
	return line
}

// Header registers the sample libraries from the column header. Other
// header lines are checked by the table grammar.
func (e *Expressions) Header(line models.Line) ([]rdf.Triple, error) {
	if !strings.HasPrefix(line.Text, columnHeader) {
		return e.table.Header(line)
	}

	columns := parse.Split(line.Text).Tail(fixedColumns)
	e.libraries = make([]string, len(columns))
	known := 0
	for i := range columns {
		if id := parse.LibraryID(columns.Get(i)); id != "" {
			e.libraries[i] = id
			known++
		}
	}
	e.logger.Info("registered sample libraries",
		zap.Int("line", line.Number),
		zap.Int("columns", len(columns)),
		zap.Int("libraries", known))
	return nil, nil
}

// Libraries returns the library id per sample column
func (e *Expressions) Libraries() []string {
	return e.libraries
}

// Parse reads every sample value of the row. A value that is not a number
// rejects the whole row.
func (e *Expressions) Parse(rec models.Record) (converters.Row, error) {
	a, err := parseAnnotation(rec, fixedColumns)
	if err != nil {
		return nil, err
	}
	if len(e.libraries) == 0 {
		return nil, parse.Fail(parse.ShortRow, "no sample columns, the %s header row is missing", columnHeader)
	}

	samples := a.fields.Tail(fixedColumns)
	if samples.Len() < len(e.libraries) {
		return nil, parse.Fail(parse.ShortRow, "want %d samples, got %d", len(e.libraries), samples.Len())
	}

	r := &expressionRow{annotation: a}
	for i, lib := range e.libraries {
		if lib == "" {
			continue
		}
		v, err := parse.ParseExpression(samples.Get(i))
		if err != nil {
			return nil, err
		}
		if v > e.min {
			r.values = append(r.values, sample{library: lib, tpm: v})
		}
	}
	return r, nil
}

type sample struct {
	library string
	tpm     float64
}

type expressionRow struct {
	annotation
	values []sample
}

func (r *expressionRow) Assert(np nanopub.Nanopub) ([]rdf.Triple, error) {
	b := vocab.NewBuilder(4 * len(r.values))
	s := r.subject(b)

	for _, v := range r.values {
		node, err := np.Local("expression_" + v.library)
		if err != nil {
			return nil, err
		}
		b.Add(node, vocab.Type, expressionMeasure)
		b.Add(node, ofCluster, s)
		b.Add(node, inSample, b.Term(vocab.FANTOM5, "library_"+v.library))
		b.Add(node, tpm, vocab.Double(v.tpm))
	}
	return b.Triples()
}
