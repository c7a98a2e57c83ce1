package vocab

import (
	"github.com/knakk/rdf"
)

// Builder collects the triples of one graph. The first term error sticks:
// later calls are no-ops and Err reports it.
type Builder struct {
	triples []rdf.Triple
	err     error
}

// NewBuilder creates a builder with room for n triples
func NewBuilder(n int) *Builder {
	return &Builder{triples: make([]rdf.Triple, 0, n)}
}

// IRI mints an IRI, recording the error if s is not a valid IRI
func (b *Builder) IRI(s string) IRI {
	if b.err != nil {
		return IRI{}
	}
	iri, err := NewIRI(s)
	if err != nil {
		b.err = err
	}
	return iri
}

// Term mints local in ns
func (b *Builder) Term(ns Namespace, local string) IRI {
	return b.IRI(ns.Term(local))
}

// Lang mints a language-tagged literal
func (b *Builder) Lang(s, lang string) rdf.Literal {
	if b.err != nil {
		return rdf.Literal{}
	}
	l, err := LangString(s, lang)
	if err != nil {
		b.err = err
	}
	return l
}

// Add appends a triple
func (b *Builder) Add(s rdf.Subject, p rdf.Predicate, o rdf.Object) {
	if b.err != nil {
		return
	}
	b.triples = append(b.triples, rdf.Triple{Subj: s, Pred: p, Obj: o})
}

// AddString appends a plain literal triple unless value is empty
func (b *Builder) AddString(s rdf.Subject, p rdf.Predicate, value string) {
	if value == "" {
		return
	}
	b.Add(s, p, String(value))
}

// Err returns the first error recorded
func (b *Builder) Err() error {
	return b.err
}

// Triples returns the collected triples, or the first error
func (b *Builder) Triples() ([]rdf.Triple, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.triples, nil
}

// Len returns the number of collected triples
func (b *Builder) Len() int {
	return len(b.triples)
}
