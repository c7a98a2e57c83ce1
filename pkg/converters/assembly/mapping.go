package assembly

import (
	"strings"

	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/biosemantics/nanoconv/pkg/vocab"
)

var (
	referenceSequence = vocab.RS.Must("ReferenceSequence")
	isPartOf          = vocab.DCTerms.Must("isPartOf")
	represents        = vocab.RS.Must("represents")
	isAssociatedWith  = vocab.RS.Must("isAssociatedWith")
	locatesIn         = vocab.RS.Must("locatesIn")
	hasRole           = vocab.NCBI.Must("hasRole")
	inAssemblyUnit    = vocab.NCBI.Must("inAssemblyUnit")
	assemblyUnit      = vocab.NCBI.Must("assemblyUnit")
	genBankID         = vocab.RS.Must("genBankID")
	refSeqID          = vocab.RS.Must("refSeqID")
)

// mapping writes the assertion of one reference sequence
type mapping interface {
	assert(b *vocab.Builder, ns vocab.Namespace, assembly vocab.IRI, seq Sequence)
}

func lookupMapping(name string) (mapping, error) {
	switch name {
	case "", MappingRolePredicate:
		return rolePredicate{}, nil
	case MappingRoleClass:
		return roleClass{}, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown assembly mapping %q", name).
			WithDetail("available", []string{MappingRolePredicate, MappingRoleClass})
	}
}

type rolePredicate struct{}

func (rolePredicate) assert(b *vocab.Builder, ns vocab.Namespace, assembly vocab.IRI, seq Sequence) {
	s := b.Term(ns, seq.Name)
	b.Add(s, vocab.Type, referenceSequence)
	b.Add(s, isPartOf, assembly)

	if role := present(seq.Role); role != "" {
		b.Add(s, hasRole, b.Term(vocab.NCBI, vocab.LocalName(role)))
	}
	if unit := present(seq.AssemblyUnit); unit != "" {
		b.Add(s, inAssemblyUnit, b.Term(vocab.NCBI, vocab.LocalName(unit)))
	}
	if cp := present(seq.Placement); cp != "" {
		p := isAssociatedWith
		if isChromosome(seq.Role) {
			p = represents
		}
		b.Add(s, p, b.Term(vocab.HG, "chr"+cp))
	}
	addAccessions(b, s, seq)
}

type roleClass struct{}

func (roleClass) assert(b *vocab.Builder, ns vocab.Namespace, assembly vocab.IRI, seq Sequence) {
	s := b.Term(ns, seq.Name)
	b.Add(s, vocab.Type, referenceSequence)
	b.Add(s, isPartOf, assembly)

	if role := present(seq.Role); role != "" {
		b.Add(s, vocab.Type, b.Term(vocab.NCBI, className(role)))
	}
	if unit := present(seq.AssemblyUnit); unit != "" {
		b.Add(s, assemblyUnit, b.Term(vocab.NCBI, vocab.LocalName(unit)))
	}
	if cp := present(seq.Placement); cp != "" {
		b.Add(s, locatesIn, b.Term(vocab.HG, "chr"+cp))
	}
	addAccessions(b, s, seq)
}

func addAccessions(b *vocab.Builder, s vocab.IRI, seq Sequence) {
	b.AddString(s, genBankID, present(seq.GenBank))
	b.AddString(s, refSeqID, present(seq.RefSeq))
}

// present returns v, or "" for the "na" placeholder of assembly reports
func present(v string) string {
	if strings.EqualFold(v, "na") {
		return ""
	}
	return v
}

func isChromosome(role string) bool {
	return role == "chromosome" || role == "assembled-molecule"
}

// className turns "unlocalized-scaffold" into "UnlocalizedScaffold"
func className(role string) string {
	var sb strings.Builder
	for _, part := range strings.FieldsFunc(role, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	}) {
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(strings.ToLower(part[1:]))
	}
	return sb.String()
}
