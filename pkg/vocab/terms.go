package vocab

import (
	"strconv"
	"strings"
	"time"

	"github.com/knakk/rdf"

	"github.com/biosemantics/nanoconv/pkg/errors"
)

// IRI is the term type used for subjects, predicates and graph names
type IRI = rdf.IRI

// Datatypes of the typed literals the converters emit
var (
	XSDString   = XSD.Must("string")
	XSDInteger  = XSD.Must("integer")
	XSDDouble   = XSD.Must("double")
	XSDDateTime = XSD.Must("dateTime")
)

// Terms shared by several converters
var (
	Type    = RDF.Must("type")
	Label   = RDFS.Must("label")
	Comment = RDFS.Must("comment")
)

// NewIRI builds an IRI from s, percent-encoding characters that may not
// appear in an IRI.
func NewIRI(s string) (IRI, error) {
	if s == "" {
		return IRI{}, errors.New(errors.ErrorTypeData, "empty IRI")
	}
	iri, err := rdf.NewIRI(escapeIRI(s))
	if err != nil {
		return IRI{}, errors.Wrap(err, errors.ErrorTypeData, "invalid IRI").WithDetail("iri", s)
	}
	return iri, nil
}

// MustIRI is NewIRI for constants. It panics on an invalid IRI.
func MustIRI(s string) IRI {
	iri, err := NewIRI(s)
	if err != nil {
		panic(err)
	}
	return iri
}

// String returns a plain xsd:string literal
func String(s string) rdf.Literal {
	return rdf.NewTypedLiteral(s, XSDString)
}

// Integer returns an xsd:integer literal
func Integer(n int64) rdf.Literal {
	return rdf.NewTypedLiteral(strconv.FormatInt(n, 10), XSDInteger)
}

// Double returns an xsd:double literal
func Double(f float64) rdf.Literal {
	return rdf.NewTypedLiteral(strconv.FormatFloat(f, 'g', -1, 64), XSDDouble)
}

// DateTime returns an xsd:dateTime literal in UTC
func DateTime(t time.Time) rdf.Literal {
	return rdf.NewTypedLiteral(t.UTC().Format(time.RFC3339), XSDDateTime)
}

// LangString returns a language-tagged literal
func LangString(s, lang string) (rdf.Literal, error) {
	l, err := rdf.NewLangLiteral(s, lang)
	if err != nil {
		return rdf.Literal{}, errors.Wrap(err, errors.ErrorTypeData, "invalid language literal").WithDetail("lang", lang)
	}
	return l, nil
}

// LocalName turns a free-text value such as "Primary Assembly" or
// "unlocalized-scaffold" into a term local name: lower case, with
// spaces and hyphens replaced by underscores.
func LocalName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-':
			return '_'
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

const hexDigits = "0123456789ABCDEF"

func escapeIRI(s string) string {
	if strings.IndexFunc(s, needsEscape) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if !needsEscape(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[byte(r)>>4])
		b.WriteByte(hexDigits[byte(r)&0x0F])
	}
	return b.String()
}

func needsEscape(r rune) bool {
	if r <= 0x20 {
		return true
	}
	switch r {
	case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
		return true
	}
	return false
}

// IsAbsolute reports whether s looks like an absolute IRI: a scheme, a
// colon and no whitespace.
func IsAbsolute(s string) bool {
	i := strings.Index(s, ":")
	if i <= 0 || strings.ContainsAny(s, " \t") {
		return false
	}
	for j, r := range s[:i] {
		letter := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
		if !letter && (j == 0 || !(r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.')) {
			return false
		}
	}
	return true
}
