package assembly

import (
	"regexp"
	"strings"

	"github.com/knakk/rdf"
	"go.uber.org/zap"

	"github.com/biosemantics/nanoconv/pkg/models"
	"github.com/biosemantics/nanoconv/pkg/vocab"
)

// literalAnnotations map header labels to predicates with a literal value
var literalAnnotations = map[string]vocab.IRI{
	"Assembly Name":         vocab.DCTerms.Must("title"),
	"Description":           vocab.RDFS.Must("label"),
	"Submitter":             vocab.DCTerms.Must("creator"),
	"Release type":          vocab.NCBI.Must("releaseType"),
	"Genome representation": vocab.NCBI.Must("genomeRepresentation"),
}

// accessionWithStatus matches "GCA_000001405.14 (replaced)"
var accessionWithStatus = regexp.MustCompile(`^(\S+)\s*\((\w+)\)`)

// Header maps "# Label: Value" lines to triples on the assembly resource.
// Unknown labels are logged and ignored.
func (c *Converter) Header(line models.Line) ([]rdf.Triple, error) {
	label, value, err := c.header.Parse(line.Text)
	if err != nil {
		return nil, err
	}

	b := vocab.NewBuilder(1)
	if p, ok := literalAnnotations[label]; ok {
		b.AddString(c.assembly, p, value)
		return b.Triples()
	}

	switch label {
	case "Assembly level":
		b.Add(c.assembly, vocab.NCBI.Must("level"), b.Term(vocab.NCBI, vocab.LocalName(value)+"_level"))
	case "GenBank Assembly ID":
		if m := accessionWithStatus.FindStringSubmatch(value); m != nil {
			value = m[1]
		}
		b.AddString(c.assembly, vocab.RS.Must("genBankAssemblyID"), value)
	case "Assembly type":
		if strings.EqualFold(value, "haploid-with-alt-loci") {
			b.Add(c.assembly, vocab.Type, vocab.NCBI.Must("HaploidAltAssembly"))
		} else {
			b.Add(c.assembly, vocab.Type, vocab.RS.Must("GenomeAssembly"))
		}
	case "Taxid":
		b.Add(c.assembly, vocab.NCBI.Must("taxID"), b.Term(vocab.NCBITaxon, value))
	default:
		c.logger.Info("ignoring assembly annotation",
			zap.Int("line", line.Number),
			zap.String("label", label))
		return nil, nil
	}
	return b.Triples()
}
