package assembly

import (
	"testing"
	"time"

	"github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/biosemantics/nanoconv/pkg/converters"
	"github.com/biosemantics/nanoconv/pkg/converters/registry"
	"github.com/biosemantics/nanoconv/pkg/models"
	"github.com/biosemantics/nanoconv/pkg/nanopub"
	"github.com/biosemantics/nanoconv/pkg/parse"
)

const (
	ns = "http://rdf.biosemantics.org/data/genomeassemblies/GRCh38#"
	rs = "http://rdf.biosemantics.org/ontologies/referencesequence#"
	nc = "http://rdf.biosemantics.org/ontologies/ncbiassembly#"
	hg = "http://rdf.biosemantics.org/data/genomes/humangenome#"
	tp = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
)

func newConverter(t *testing.T, mapping string, log *zap.Logger) *Converter {
	t.Helper()
	s, err := New(converters.Options{
		AssemblyName:    "GRCh38",
		AssemblyMapping: mapping,
		Publication:     nanopub.Publication{Creators: []string{"Zuotian Tatum"}},
		Created:         time.Date(2014, 1, 2, 3, 4, 5, 0, time.UTC),
		Logger:          log,
	})
	require.NoError(t, err)
	return s.(*Converter)
}

// render flattens triples to "s p o" lines of plain term strings
func render(triples []rdf.Triple) []string {
	out := make([]string, 0, len(triples))
	for _, tr := range triples {
		out = append(out, tr.Subj.String()+" "+tr.Pred.String()+" "+tr.Obj.String())
	}
	return out
}

func assertRow(t *testing.T, c *Converter, text string) []string {
	t.Helper()
	r, err := c.Parse(models.Record{Text: text, LineNumber: 1, RowIndex: 1})
	require.NoError(t, err)
	triples, err := r.Assert(nanopub.Nanopub{Index: 1})
	require.NoError(t, err)
	return render(triples)
}

func TestConverter_RolePredicate(t *testing.T) {
	c := newConverter(t, MappingRolePredicate, nil)

	got := assertRow(t, c, "chr1\tchromosome\t1\tCM000663.2\tNC_000001.11\tPrimary Assembly")
	assert.ElementsMatch(t, []string{
		ns + "chr1 " + tp + " " + rs + "ReferenceSequence",
		ns + "chr1 http://purl.org/dc/terms/isPartOf " + ns + "Assembly",
		ns + "chr1 " + nc + "hasRole " + nc + "chromosome",
		ns + "chr1 " + nc + "inAssemblyUnit " + nc + "primary_assembly",
		ns + "chr1 " + rs + "represents " + hg + "chr1",
		ns + "chr1 " + rs + "genBankID CM000663.2",
		ns + "chr1 " + rs + "refSeqID NC_000001.11",
	}, got)

	got = assertRow(t, c, "HSCHR1_RANDOM_CTG5\tunlocalized-scaffold\t1\tGL000191.1\t\tPrimary Assembly")
	assert.Contains(t, got, ns+"HSCHR1_RANDOM_CTG5 "+rs+"isAssociatedWith "+hg+"chr1")
	assert.Contains(t, got, ns+"HSCHR1_RANDOM_CTG5 "+nc+"hasRole "+nc+"unlocalized_scaffold")
	for _, line := range got {
		assert.NotContains(t, line, "refSeqID", "empty refseq accession emits nothing")
	}
}

func TestConverter_RoleClass(t *testing.T) {
	c := newConverter(t, MappingRoleClass, nil)

	got := assertRow(t, c, "chr1\tchromosome\t1\tCM000663.2\tNC_000001.11\tPrimary Assembly")
	assert.ElementsMatch(t, []string{
		ns + "chr1 " + tp + " " + rs + "ReferenceSequence",
		ns + "chr1 " + tp + " " + nc + "Chromosome",
		ns + "chr1 http://purl.org/dc/terms/isPartOf " + ns + "Assembly",
		ns + "chr1 " + nc + "assemblyUnit " + nc + "primary_assembly",
		ns + "chr1 " + rs + "locatesIn " + hg + "chr1",
		ns + "chr1 " + rs + "genBankID CM000663.2",
		ns + "chr1 " + rs + "refSeqID NC_000001.11",
	}, got)

	got = assertRow(t, c, "HSCHR6_MHC_APD_CTG1\talt-scaffold\t6\tGL000250.1\tNT_167244.1\tALT_REF_LOCI_1")
	assert.Contains(t, got, ns+"HSCHR6_MHC_APD_CTG1 "+tp+" "+nc+"AltScaffold")
	assert.Contains(t, got, ns+"HSCHR6_MHC_APD_CTG1 "+rs+"locatesIn "+hg+"chr6")
}

func TestConverter_ShortAndPlaceholderRows(t *testing.T) {
	for _, mapping := range []string{MappingRolePredicate, MappingRoleClass} {
		t.Run(mapping, func(t *testing.T) {
			c := newConverter(t, mapping, nil)

			got := assertRow(t, c, "chrUn_gl000220\tunplaced-scaffold\tna")
			assert.Len(t, got, 3, "type, isPartOf and role only")

			got = assertRow(t, c, "chrM")
			assert.Len(t, got, 2)

			_, err := c.Parse(models.Record{Text: "\tchromosome\t1"})
			f, ok := parse.AsFailure(err)
			require.True(t, ok)
			assert.Equal(t, parse.ShortRow, f.Reason)
		})
	}
}

func TestConverter_Header(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := newConverter(t, MappingRolePredicate, zap.New(core))

	tests := []struct {
		line string
		want []string
	}{
		{"# Assembly Name:  GRCh38", []string{ns + "Assembly http://purl.org/dc/terms/title GRCh38"}},
		{"# Description:    Genome Reference Consortium Human Build 38",
			[]string{ns + "Assembly http://www.w3.org/2000/01/rdf-schema#label Genome Reference Consortium Human Build 38"}},
		{"# Assembly level: Chromosome", []string{ns + "Assembly " + nc + "level " + nc + "chromosome_level"}},
		{"# GenBank Assembly ID: GCA_000001405.15 (latest)", []string{ns + "Assembly " + rs + "genBankAssemblyID GCA_000001405.15"}},
		{"# GenBank Assembly ID: GCA_000001405.15", []string{ns + "Assembly " + rs + "genBankAssemblyID GCA_000001405.15"}},
		{"# Assembly type: haploid-with-alt-loci", []string{ns + "Assembly " + tp + " " + nc + "HaploidAltAssembly"}},
		{"# Assembly type: haploid", []string{ns + "Assembly " + tp + " " + rs + "GenomeAssembly"}},
		{"# Taxid:          9606", []string{ns + "Assembly " + nc + "taxID http://purl.obolibrary.org/obo/NCBITaxon_9606"}},
		{"# Date:           2013-12-17", []string{}},
	}
	for i, tt := range tests {
		triples, err := c.Header(models.Line{Kind: models.HeaderLine, Text: tt.line, Number: i + 1})
		require.NoError(t, err, tt.line)
		assert.ElementsMatch(t, tt.want, render(triples), tt.line)
	}

	ignored := logs.FilterMessage("ignoring assembly annotation").All()
	require.Len(t, ignored, 1)
	assert.Equal(t, "Date", ignored[0].ContextMap()["label"])

	_, err := c.Header(models.Line{Kind: models.HeaderLine, Text: "# Sequence-Name\tSequence-Role"})
	f, ok := parse.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, parse.MalformedHeaderRow, f.Reason)
}

func TestConverter_Document(t *testing.T) {
	c := newConverter(t, "", nil)
	triples, err := c.Document()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		ns + " " + tp + " http://xmlns.com/foaf/0.1/Document",
		ns + " http://purl.org/dc/terms/creator Zuotian Tatum",
		ns + " http://purl.org/dc/terms/created 2014-01-02T03:04:05Z",
	}, render(triples))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(converters.Options{})
	assert.ErrorContains(t, err, "assembly_name is required")

	_, err = New(converters.Options{AssemblyName: "hg19", AssemblyMapping: "role-guess"})
	assert.ErrorContains(t, err, "unknown assembly mapping")
}

func TestRegistered(t *testing.T) {
	info, err := registry.Lookup(Subtype)
	require.NoError(t, err)
	assert.NotEmpty(t, info.Defaults.BaseURL)
	assert.NotEmpty(t, info.Defaults.Publication.Authors)
}

func TestClassName(t *testing.T) {
	assert.Equal(t, "UnlocalizedScaffold", className("unlocalized-scaffold"))
	assert.Equal(t, "AssembledMolecule", className("assembled-molecule"))
	assert.Equal(t, "Chromosome", className("chromosome"))
}

func TestIsChromosome(t *testing.T) {
	assert.True(t, isChromosome("chromosome"))
	assert.True(t, isChromosome("assembled-molecule"), "NCBI reports name placed chromosomes assembled-molecule")
	assert.False(t, isChromosome("alt-scaffold"))
	assert.False(t, isChromosome("unlocalized-scaffold"))
}
