package fantom5

import (
	"strings"
	"testing"

	"github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/biosemantics/nanoconv/pkg/converters"
	"github.com/biosemantics/nanoconv/pkg/converters/registry"
	"github.com/biosemantics/nanoconv/pkg/models"
	"github.com/biosemantics/nanoconv/pkg/nanopub"
	"github.com/biosemantics/nanoconv/pkg/parse"
	"github.com/biosemantics/nanoconv/pkg/vocab"
)

const (
	f5  = "http://rdf.biosemantics.org/data/riken/fantom5/data#"
	rso = "http://rdf.biosemantics.org/ontologies/referencesequence#"
	typ = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
)

func row(fields ...string) models.Record {
	return models.Record{Text: strings.Join(fields, "\t"), LineNumber: 10}
}

func render(triples []rdf.Triple) []string {
	out := make([]string, 0, len(triples))
	for _, tr := range triples {
		out = append(out, tr.Subj.String()+" "+tr.Pred.String()+" "+tr.Obj.String())
	}
	return out
}

func mint(t *testing.T, n int) nanopub.Nanopub {
	t.Helper()
	p, err := nanopub.LookupProfile(nanopub.ProfileNanopub20)
	require.NoError(t, err)
	np, err := nanopub.Mint(vocab.Namespace(defaults.BaseURL), SubtypeExpressions, n, p)
	require.NoError(t, err)
	return np
}

func requireReason(t *testing.T, err error, reason parse.Reason) {
	t.Helper()
	f, ok := parse.AsFailure(err)
	require.True(t, ok, "expected a row failure, got %v", err)
	assert.Equal(t, reason, f.Reason)
}

func create(t *testing.T, subtype string, opts converters.Options) converters.Strategy {
	t.Helper()
	opts.Logger = zaptest.NewLogger(t)
	s, err := registry.Create(subtype, opts)
	require.NoError(t, err)
	assert.Equal(t, subtype, s.Subtype())
	return s
}

func TestCageClusters(t *testing.T) {
	s := create(t, SubtypeCageClusters, converters.Options{})

	r, err := s.Parse(row("chr1:3473408..3473413,+", "p1@MEGF6", "CAGE_peak_1_at_MEGF6_5end", "NA", "NA", "NA", "NA"))
	require.NoError(t, err)
	triples, err := r.Assert(mint(t, 1))
	require.NoError(t, err)

	s1 := f5 + "chr1:3473408..3473413,+"
	loc := f5 + "loc_chr1:3473408..3473413,+"
	assert.ElementsMatch(t, []string{
		s1 + " " + typ + " http://purl.org/obo/owl/SO#SO_0001917",
		s1 + " " + rso + "mapsTo " + loc,
		loc + " " + typ + " " + rso + "SequenceLocation",
		loc + " " + rso + "start 3473408",
		loc + " " + rso + "end 3473413",
		loc + " " + rso + "hasOrientation " + rso + "forward",
		loc + " " + rso + "regionOf http://rdf.biosemantics.org/data/genomes/humangenome#chr1",
		s1 + " http://www.w3.org/2000/01/rdf-schema#label p1@MEGF6",
		s1 + " http://www.w3.org/2000/01/rdf-schema#comment CAGE_peak_1_at_MEGF6_5end",
	}, render(triples))

	for _, tr := range triples {
		switch tr.Pred.String() {
		case rso + "start", rso + "end":
			lit, ok := tr.Obj.(rdf.Literal)
			require.True(t, ok)
			assert.Equal(t, vocab.XSDInteger, lit.DataType)
		case "http://www.w3.org/2000/01/rdf-schema#label":
			lit, ok := tr.Obj.(rdf.Literal)
			require.True(t, ok)
			assert.Equal(t, "en", lit.Lang())
		}
	}

	r, err = s.Parse(row("chrX:100..250,-"))
	require.NoError(t, err)
	triples, err = r.Assert(mint(t, 2))
	require.NoError(t, err)
	assert.Contains(t, render(triples), f5+"loc_chrX:100..250,- "+rso+"hasOrientation "+rso+"reverse")
	assert.Len(t, triples, 7, "no label or comment without descriptions")

	_, err = s.Parse(row("chr1:1..1", "p1@X"))
	requireReason(t, err, parse.UnrecognizedAnnotationFormat)

	_, err = s.Parse(row("01STAT:MAPPED", "", "", "", "", "", "", "4029785"))
	requireReason(t, err, parse.NotARecord)
}

func TestGeneAssociations(t *testing.T) {
	s := create(t, SubtypeGeneAssociations, converters.Options{})

	r, err := s.Parse(row("chr1:564571..564600,+", "p1@FAM138A", "CAGE peak 1 at FAM138A 5end",
		"-45bp_to_NM_001005484,ENST00000335137,NR_024540_5end",
		"entrezgene:100287102", "HGNC:37102", "uniprot:Q6IEY1"))
	require.NoError(t, err)
	triples, err := r.Assert(mint(t, 1))
	require.NoError(t, err)

	s1 := f5 + "chr1:564571..564600,+"
	assert.ElementsMatch(t, []string{
		s1 + " " + rso + "isAssociatedWith http://identifiers.org/refseq/NM_001005484",
		s1 + " " + f5 + "distanceToTranscriptStart -45",
		s1 + " " + rso + "isAssociatedWith http://identifiers.org/ncbigene/100287102",
		s1 + " " + rso + "isAssociatedWith http://identifiers.org/hgnc/37102",
		s1 + " " + rso + "isAssociatedWith http://identifiers.org/uniprot/Q6IEY1",
	}, render(triples))

	r, err = s.Parse(row("chr1:1..2,+", "", "", "10bp_to_XM_1_5end", "NA", "NA", "NA"))
	require.NoError(t, err)
	triples, err = r.Assert(mint(t, 2))
	require.NoError(t, err)
	assert.Empty(t, triples, "no NM_ transcript and no genes")

	_, err = s.Parse(row("chr1:1..2,+", "", "", "NA", "NA", "NA", "NA"))
	requireReason(t, err, parse.TranscriptAssociationAbsent)

	_, err = s.Parse(row("chr1:1..2,+", "", "", "upstream of NM_1", "NA", "NA", "NA"))
	requireReason(t, err, parse.UnrecognizedTranscriptAssociation)

	_, err = s.Parse(row("chr1:1..2,+", "p1"))
	requireReason(t, err, parse.ShortRow)
}

func TestExpressions(t *testing.T) {
	s := create(t, SubtypeExpressions, converters.Options{MinExpression: 0.5})
	e := s.(*Expressions)

	header := models.Line{Kind: models.DataLine, Text: strings.Join([]string{
		"00Annotation", "short_description", "description", "association_with_transcript",
		"entrezgene_id", "hgnc_id", "uniprot_id",
		"tpm.Adipocyte%20-%20breast%2c%20donor1.CNhs11051.11376-118A8",
		"tpm.misc",
		"tpm.Astrocyte%20-%20cerebellum%2c%20donor1.CNhs11321.11500-119F6",
	}, "\t"), Number: 3}

	classified := s.Classify(header)
	assert.Equal(t, models.HeaderLine, classified.Kind)
	assert.Equal(t, models.DataLine, s.Classify(models.Line{Kind: models.DataLine, Text: "chr1:1..2,+"}).Kind)

	_, err := s.Parse(row("chr1:1..2,+", "", "", "", "", "", "", "1", "2", "3"))
	requireReason(t, err, parse.ShortRow)

	triples, err := s.Header(classified)
	require.NoError(t, err)
	assert.Empty(t, triples)
	assert.Equal(t, []string{"CNhs11051", "", "CNhs11321"}, e.Libraries())

	triples, err = s.Header(models.Line{Kind: models.HeaderLine, Text: "##ColumnVariables[00Annotation]=CAGE peak id"})
	require.NoError(t, err)
	assert.Empty(t, triples)

	_, err = s.Header(models.Line{Kind: models.HeaderLine, Text: "## stray comment"})
	requireReason(t, err, parse.MalformedHeaderRow)

	np := mint(t, 4)
	r, err := s.Parse(row("chr10:100013403..100013414,-", "p@chr10", "", "NA", "NA", "NA", "NA", "12.25", "x", "0.5"))
	require.NoError(t, err)
	triples, err = r.Assert(np)
	require.NoError(t, err)

	node := np.URI.String() + "#expression_CNhs11051"
	assert.ElementsMatch(t, []string{
		node + " " + typ + " " + f5 + "ExpressionMeasurement",
		node + " " + f5 + "ofCluster " + f5 + "chr10:100013403..100013414,-",
		node + " " + f5 + "inSample " + f5 + "library_CNhs11051",
		node + " " + f5 + "tpm 12.25",
	}, render(triples), "values at or below the threshold are dropped; unnamed columns are not read")

	_, err = s.Parse(row("chr10:1..2,-", "", "", "NA", "NA", "NA", "NA", "1.0", "0", "n/a"))
	requireReason(t, err, parse.UnrecognizedExpressionValue)

	_, err = s.Parse(row("chr10:1..2,-", "", "", "NA", "NA", "NA", "NA", "1.0"))
	requireReason(t, err, parse.ShortRow)

	_, err = s.Parse(row("02STAT:NORM_FACTOR", "", "", "", "", "", "", "1", "1", "1"))
	requireReason(t, err, parse.NotARecord)
}

func TestTableHeader(t *testing.T) {
	s := create(t, SubtypeCageClusters, converters.Options{})

	for _, text := range []string{"##ParameterValue[genome_assemblies]=hg19", "# Source: FANTOM5 phase 1"} {
		triples, err := s.Header(models.Line{Kind: models.HeaderLine, Text: text})
		require.NoError(t, err, text)
		assert.Empty(t, triples)
	}

	_, err := s.Header(models.Line{Kind: models.HeaderLine, Number: 3, Text: "#"})
	requireReason(t, err, parse.MalformedHeaderRow)
}

func TestRegistered(t *testing.T) {
	for _, subtype := range []string{SubtypeCageClusters, SubtypeGeneAssociations, SubtypeExpressions} {
		info, err := registry.Lookup(subtype)
		require.NoError(t, err)
		assert.Equal(t, defaults.BaseURL, info.Defaults.BaseURL)
		assert.Len(t, info.Defaults.Publication.Creators, 3)
	}
}
