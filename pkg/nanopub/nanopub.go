// Package nanopub mints nanopublication URIs and assembles the four graphs
// of a nanopublication: the head graph linking the parts, the assertion,
// the provenance and the publication info.
package nanopub

import (
	"strconv"

	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/biosemantics/nanoconv/pkg/vocab"
)

// Role identifies which part of a nanopublication a graph holds
type Role string

const (
	RoleHead            Role = "head"
	RoleAssertion       Role = "assertion"
	RoleProvenance      Role = "provenance"
	RolePublicationInfo Role = "publication_info"
	// RoleDocument marks document-level metadata outside any nanopublication
	RoleDocument Role = "document"
)

// Nanopub is the set of URIs of one nanopublication
type Nanopub struct {
	Index           int
	URI             vocab.IRI
	Head            vocab.IRI
	Assertion       vocab.IRI
	Provenance      vocab.IRI
	PublicationInfo vocab.IRI
}

// URIFor returns the nanopublication URI for row index n. It depends on
// base, subtype and n only.
func URIFor(base vocab.Namespace, subtype string, n int) string {
	return base.Term(subtype + "/" + strconv.Itoa(n))
}

// Mint derives the URIs of the nanopublication for row index n
func Mint(base vocab.Namespace, subtype string, n int, p Profile) (Nanopub, error) {
	if n < 1 {
		return Nanopub{}, errors.Newf(errors.ErrorTypeInternal, "row index must be positive, got %d", n)
	}
	if subtype == "" {
		return Nanopub{}, errors.New(errors.ErrorTypeInternal, "subtype is required to mint a nanopublication")
	}

	uri := URIFor(base, subtype, n)
	b := vocab.NewBuilder(0)
	np := Nanopub{
		Index:           n,
		URI:             b.IRI(uri),
		Head:            b.IRI(uri + "#"),
		Assertion:       b.IRI(uri + "#" + p.AssertionSuffix),
		Provenance:      b.IRI(uri + "#" + p.ProvenanceSuffix),
		PublicationInfo: b.IRI(uri + "#" + p.PublicationInfoSuffix),
	}
	if err := b.Err(); err != nil {
		return Nanopub{}, err
	}
	return np, nil
}

// Local returns "<nanopub>#name", used for nodes owned by one nanopublication
func (n Nanopub) Local(name string) (vocab.IRI, error) {
	return vocab.NewIRI(n.URI.String() + "#" + name)
}
