package serialize

import (
	"io"

	grdf "github.com/geoknoesis/rdf-go/rdf"
	"github.com/knakk/rdf"

	"github.com/biosemantics/nanoconv/pkg/errors"
)

// Options configure Turtle and TriG output
type Options struct {
	// Prefixes maps prefix names to namespaces; "" is the default prefix
	Prefixes map[string]string
	// Base is written as @base when set
	Base string
}

// Write serializes quads to w in format f. Quads whose context is empty
// belong to the default graph.
func Write(w io.Writer, f Format, quads []rdf.Quad, opts Options) error {
	var err error
	switch f {
	case NTriples:
		err = writeNTriples(w, quads)
	case NQuads:
		err = writeNQuads(w, quads)
	case Turtle:
		err = writeTurtle(w, quads, opts)
	case TriG:
		err = writeTriG(w, quads, opts)
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown output format %q", f)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write "+string(f))
	}
	return nil
}

func writeNTriples(w io.Writer, quads []rdf.Quad) error {
	enc := rdf.NewTripleEncoder(w, rdf.NTriples)
	for _, q := range quads {
		if err := enc.Encode(q.Triple); err != nil {
			return err
		}
	}
	return enc.Close()
}

func writeNQuads(w io.Writer, quads []rdf.Quad) error {
	enc, err := grdf.NewQuadEncoder(w, grdf.QuadFormatNQuads)
	if err != nil {
		return err
	}
	return encodeQuads(enc, quads)
}

func writeTriG(w io.Writer, quads []rdf.Quad, opts Options) error {
	enc := grdf.NewTriGQuadEncoder(w, grdf.TriGEncodeOptions{
		Prefixes: opts.Prefixes,
		BaseIRI:  opts.Base,
	})
	return encodeQuads(enc, quads)
}

// writeTurtle merges every graph into one
func writeTurtle(w io.Writer, quads []rdf.Quad, opts Options) error {
	enc := grdf.NewTurtleTripleEncoder(w, grdf.TurtleEncodeOptions{
		Prefixes: opts.Prefixes,
		BaseIRI:  opts.Base,
	})
	for _, q := range quads {
		if err := enc.Write(toTriple(q.Triple)); err != nil {
			_ = enc.Close()
			return err
		}
	}
	return enc.Close()
}

func encodeQuads(enc grdf.QuadEncoder, quads []rdf.Quad) error {
	for _, q := range quads {
		if err := enc.Write(toQuad(q)); err != nil {
			_ = enc.Close()
			return err
		}
	}
	return enc.Close()
}
