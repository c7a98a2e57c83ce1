// Package vocab holds the namespace configuration of a conversion run and
// the term constructors every converter mints URIs with.
//
// A Vocabulary is built once at startup from the run's base URL and is
// read-only afterwards; it is passed explicitly to the converters and to
// the serializers.
package vocab

import (
	"sort"
	"strings"

	"github.com/biosemantics/nanoconv/pkg/errors"
)

// Namespace is an IRI prefix
type Namespace string

// Term returns the IRI string of local in this namespace
func (n Namespace) Term(local string) string {
	return string(n) + local
}

// IRI returns the term as an IRI. Characters not allowed in an IRI
// are percent-encoded.
func (n Namespace) IRI(local string) (IRI, error) {
	return NewIRI(n.Term(local))
}

// Must is IRI for locals known to be valid. It panics otherwise.
func (n Namespace) Must(local string) IRI {
	return MustIRI(n.Term(local))
}

// Well-known namespaces
const (
	RDF       Namespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS      Namespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSD       Namespace = "http://www.w3.org/2001/XMLSchema#"
	DCTerms   Namespace = "http://purl.org/dc/terms/"
	FOAF      Namespace = "http://xmlns.com/foaf/0.1/"
	RS        Namespace = "http://rdf.biosemantics.org/ontologies/referencesequence#"
	HG        Namespace = "http://rdf.biosemantics.org/data/genomes/humangenome#"
	NCBI      Namespace = "http://rdf.biosemantics.org/ontologies/ncbiassembly#"
	SO        Namespace = "http://purl.org/obo/owl/SO#"
	FANTOM5   Namespace = "http://rdf.biosemantics.org/data/riken/fantom5/data#"
	PROV      Namespace = "http://www.w3.org/ns/prov#"
	OBO       Namespace = "http://purl.org/obo/owl/obo#"
	PAV       Namespace = "http://swan.mindinformatics.org/ontologies/1.2/pav/"
	NP        Namespace = "http://www.nanopub.org/nschema#"
	SIO       Namespace = "http://semanticscience.org/resource/"
	NCBITaxon Namespace = "http://purl.obolibrary.org/obo/NCBITaxon_"
	RefSeq    Namespace = "http://identifiers.org/refseq/"
	NCBIGene  Namespace = "http://identifiers.org/ncbigene/"
	HGNC      Namespace = "http://identifiers.org/hgnc/"
	UniProt   Namespace = "http://identifiers.org/uniprot/"
)

// standardPrefixes are bound in every run
var standardPrefixes = map[string]Namespace{
	"rdf":      RDF,
	"rdfs":     RDFS,
	"xsd":      XSD,
	"dcterms":  DCTerms,
	"foaf":     FOAF,
	"rs":       RS,
	"hg":       HG,
	"ncbi":     NCBI,
	"so":       SO,
	"f5":       FANTOM5,
	"prov":     PROV,
	"obo":      OBO,
	"pav":      PAV,
	"np":       NP,
	"sio":      SIO,
	"refseq":   RefSeq,
	"ncbigene": NCBIGene,
	"hgnc":     HGNC,
	"uniprot":  UniProt,
}

// Vocabulary maps prefixes to namespaces for one run. The empty prefix is
// bound to the run's base.
type Vocabulary struct {
	base     Namespace
	prefixes map[string]Namespace
}

// New creates the vocabulary of a run. base must be an absolute http(s)
// IRI ending in "/"; a missing trailing slash is added. extra prefixes
// override the standard ones.
func New(base string, extra map[string]string) (*Vocabulary, error) {
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, errors.Newf(errors.ErrorTypeConfig, "base url %q must be an absolute http(s) IRI", base)
	}
	if strings.Contains(base, "#") {
		return nil, errors.Newf(errors.ErrorTypeConfig, "base url %q must not contain a fragment", base)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if _, err := NewIRI(base); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid base url")
	}

	v := &Vocabulary{
		base:     Namespace(base),
		prefixes: make(map[string]Namespace, len(standardPrefixes)+len(extra)+1),
	}
	for p, ns := range standardPrefixes {
		v.prefixes[p] = ns
	}
	for p, ns := range extra {
		v.prefixes[p] = Namespace(ns)
	}
	v.prefixes[""] = v.base
	return v, nil
}

// Base returns the run's base namespace
func (v *Vocabulary) Base() Namespace {
	return v.base
}

// Prefixes returns a copy of the prefix mapping
func (v *Vocabulary) Prefixes() map[string]string {
	out := make(map[string]string, len(v.prefixes))
	for p, ns := range v.prefixes {
		out[p] = string(ns)
	}
	return out
}

// PrefixNames returns the bound prefixes in sorted order
func (v *Vocabulary) PrefixNames() []string {
	names := make([]string, 0, len(v.prefixes))
	for p := range v.prefixes {
		names = append(names, p)
	}
	sort.Strings(names)
	return names
}

// Namespace returns the namespace bound to prefix
func (v *Vocabulary) Namespace(prefix string) (Namespace, bool) {
	ns, ok := v.prefixes[prefix]
	return ns, ok
}
