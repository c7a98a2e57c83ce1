package serialize

import (
	"strings"

	grdf "github.com/geoknoesis/rdf-go/rdf"
	"github.com/knakk/rdf"

	"github.com/biosemantics/nanoconv/pkg/vocab"
)

// toQuad converts a quad to the encoder's term model. An empty context is
// the default graph.
func toQuad(q rdf.Quad) grdf.Quad {
	t := toTriple(q.Triple)
	out := grdf.Quad{S: t.S, P: t.P, O: t.O}
	if q.Ctx != nil && q.Ctx.String() != "" {
		out.G = toTerm(q.Ctx)
	}
	return out
}

func toTriple(t rdf.Triple) grdf.Triple {
	return grdf.Triple{
		S: toTerm(t.Subj),
		P: grdf.IRI{Value: t.Pred.String()},
		O: toTerm(t.Obj),
	}
}

func toTerm(t rdf.Term) grdf.Term {
	switch v := t.(type) {
	case rdf.IRI:
		return grdf.IRI{Value: v.String()}
	case rdf.Blank:
		return grdf.BlankNode{ID: strings.TrimPrefix(v.String(), "_:")}
	case rdf.Literal:
		l := grdf.Literal{Lexical: v.String(), Lang: v.Lang()}
		// xsd:string is the implicit datatype of plain literals
		if dt := v.DataType.String(); l.Lang == "" && dt != "" && dt != vocab.XSDString.String() {
			l.Datatype = grdf.IRI{Value: dt}
		}
		return l
	default:
		return grdf.IRI{Value: t.String()}
	}
}
