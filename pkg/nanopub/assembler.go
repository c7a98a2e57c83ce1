package nanopub

import (
	"strconv"

	"github.com/knakk/rdf"

	"github.com/biosemantics/nanoconv/pkg/vocab"
)

var (
	nanopublication = vocab.NP.Must("Nanopublication")
	authoredBy      = vocab.PAV.Must("authoredBy")
	createdBy       = vocab.PAV.Must("createdBy")
	rights          = vocab.DCTerms.Must("rights")
	rightsHolder    = vocab.DCTerms.Must("rightsHolder")
	created         = vocab.DCTerms.Must("created")
)

// Graph is a batch of triples for one named graph
type Graph struct {
	Name    vocab.IRI
	Role    Role
	Triples []rdf.Triple
}

// Bundle is an assembled nanopublication, graphs in head, assertion,
// provenance, publication info order
type Bundle struct {
	Nanopub
	Graphs []Graph
}

// Len returns the number of triples across all graphs
func (b Bundle) Len() int {
	n := 0
	for _, g := range b.Graphs {
		n += len(g.Triples)
	}
	return n
}

// Assembler mints nanopublications for one run and wraps assertion
// triples with the head, provenance and publication-info graphs.
type Assembler struct {
	base      vocab.Namespace
	subtype   string
	profile   Profile
	run       *RunInfo
	createdAt rdf.Literal
}

// NewAssembler creates an assembler. base, subtype, profile and run are
// fixed for the lifetime of the run.
func NewAssembler(base vocab.Namespace, subtype string, profile Profile, run *RunInfo) *Assembler {
	return &Assembler{
		base:      base,
		subtype:   subtype,
		profile:   profile,
		run:       run,
		createdAt: vocab.DateTime(run.Created),
	}
}

// Profile returns the schema profile in use
func (a *Assembler) Profile() Profile {
	return a.profile
}

// Mint derives the nanopublication for row index n
func (a *Assembler) Mint(n int) (Nanopub, error) {
	return Mint(a.base, a.subtype, n, a.profile)
}

// Assemble builds the four graphs of np around the given assertion. The
// head graph always holds exactly four triples; the assertion may be
// empty.
func (a *Assembler) Assemble(np Nanopub, assertion []rdf.Triple) (Bundle, error) {
	derivedFrom, err := vocab.NewIRI(a.run.Dataset + "row_" + strconv.Itoa(np.Index))
	if err != nil {
		return Bundle{}, err
	}

	head := []rdf.Triple{
		{Subj: np.URI, Pred: vocab.Type, Obj: nanopublication},
		{Subj: np.URI, Pred: a.profile.HasAssertion, Obj: np.Assertion},
		{Subj: np.URI, Pred: a.profile.HasProvenance, Obj: np.Provenance},
		{Subj: np.URI, Pred: a.profile.HasPublicationInfo, Obj: np.PublicationInfo},
	}
	provenance := []rdf.Triple{
		{Subj: np.Assertion, Pred: a.profile.DerivedFrom, Obj: derivedFrom},
		{Subj: np.Assertion, Pred: a.profile.GeneratedBy, Obj: a.run.Process},
	}

	return Bundle{
		Nanopub: np,
		Graphs: []Graph{
			{Name: np.Head, Role: RoleHead, Triples: head},
			{Name: np.Assertion, Role: RoleAssertion, Triples: assertion},
			{Name: np.Provenance, Role: RoleProvenance, Triples: provenance},
			{Name: np.PublicationInfo, Role: RolePublicationInfo, Triples: a.publicationInfo(np)},
		},
	}, nil
}

func (a *Assembler) publicationInfo(np Nanopub) []rdf.Triple {
	triples := make([]rdf.Triple, 0, 3+len(a.run.Authors)+len(a.run.Creators))
	triples = append(triples,
		rdf.Triple{Subj: np.URI, Pred: rights, Obj: a.run.Rights},
		rdf.Triple{Subj: np.URI, Pred: rightsHolder, Obj: a.run.RightsHolder},
	)
	for _, author := range a.run.Authors {
		triples = append(triples, rdf.Triple{Subj: np.URI, Pred: authoredBy, Obj: author})
	}
	for _, c := range a.run.Creators {
		triples = append(triples, rdf.Triple{Subj: np.URI, Pred: createdBy, Obj: c})
	}
	return append(triples, rdf.Triple{Subj: np.URI, Pred: created, Obj: a.createdAt})
}
