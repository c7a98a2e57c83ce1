package nanopub

import (
	"time"

	"github.com/knakk/rdf"

	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/biosemantics/nanoconv/pkg/vocab"
)

// Publication holds the run-level constants as configured. Empty fields
// are filled from a converter's defaults with Merge.
type Publication struct {
	// DatasetURI prefixes "row_<n>" to form the derived-from target
	DatasetURI   string
	ProcessURI   string
	Rights       string
	RightsHolder string
	Authors      []string
	// Creators are IRIs or, for anything not an absolute IRI, names
	Creators []string
}

// Merge returns p with empty fields taken from defaults
func (p Publication) Merge(defaults Publication) Publication {
	if p.DatasetURI == "" {
		p.DatasetURI = defaults.DatasetURI
	}
	if p.ProcessURI == "" {
		p.ProcessURI = defaults.ProcessURI
	}
	if p.Rights == "" {
		p.Rights = defaults.Rights
	}
	if p.RightsHolder == "" {
		p.RightsHolder = defaults.RightsHolder
	}
	if len(p.Authors) == 0 {
		p.Authors = defaults.Authors
	}
	if len(p.Creators) == 0 {
		p.Creators = defaults.Creators
	}
	return p
}

// RunInfo is the resolved form of Publication plus the creation time
// fixed at run start. It is identical for every nanopublication of a run.
type RunInfo struct {
	Dataset      string
	Process      vocab.IRI
	Rights       vocab.IRI
	RightsHolder vocab.IRI
	Authors      []vocab.IRI
	Creators     []rdf.Object
	Created      time.Time
}

// NewRunInfo resolves p. Dataset, process, rights, rights holder and at
// least one author are required.
func NewRunInfo(p Publication, created time.Time) (*RunInfo, error) {
	switch {
	case p.DatasetURI == "":
		return nil, errors.New(errors.ErrorTypeConfig, "publication dataset_uri is required")
	case p.ProcessURI == "":
		return nil, errors.New(errors.ErrorTypeConfig, "publication process_uri is required")
	case p.Rights == "" || p.RightsHolder == "":
		return nil, errors.New(errors.ErrorTypeConfig, "publication rights and rights_holder are required")
	case len(p.Authors) == 0:
		return nil, errors.New(errors.ErrorTypeConfig, "at least one publication author is required")
	}

	b := vocab.NewBuilder(0)
	info := &RunInfo{
		Dataset:      p.DatasetURI,
		Process:      b.IRI(p.ProcessURI),
		Rights:       b.IRI(p.Rights),
		RightsHolder: b.IRI(p.RightsHolder),
		Created:      created.UTC(),
	}
	b.IRI(p.DatasetURI)
	for _, a := range p.Authors {
		info.Authors = append(info.Authors, b.IRI(a))
	}
	for _, c := range p.Creators {
		if vocab.IsAbsolute(c) {
			info.Creators = append(info.Creators, b.IRI(c))
		} else {
			info.Creators = append(info.Creators, vocab.String(c))
		}
	}
	if err := b.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid publication settings")
	}
	return info, nil
}
