package registry

import (
	"testing"

	"github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosemantics/nanoconv/pkg/converters"
	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/biosemantics/nanoconv/pkg/models"
)

type stubStrategy struct {
	converters.Base
}

func (stubStrategy) Subtype() string { return "stub" }

func (stubStrategy) Parse(models.Record) (converters.Row, error) { return nil, nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	info := &Info{
		Subtype: "stub",
		Factory: func(converters.Options) (converters.Strategy, error) { return stubStrategy{}, nil },
	}
	require.NoError(t, r.Register(info))
	require.NoError(t, r.Register(&Info{
		Subtype: "broken",
		Factory: func(converters.Options) (converters.Strategy, error) {
			return nil, errors.New(errors.ErrorTypeConfig, "assembly_name is required")
		},
	}))

	err := r.Register(info)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig), "duplicate subtype")
	assert.Error(t, r.Register(&Info{Subtype: "nofactory"}))

	assert.Equal(t, []string{"broken", "stub"}, r.List())

	s, err := r.Create("stub", converters.Options{})
	require.NoError(t, err)
	assert.Equal(t, "stub", s.Subtype())

	line := models.Line{Kind: models.DataLine, Text: "x"}
	assert.Equal(t, line, s.Classify(line))
	triples, err := s.Header(line)
	assert.NoError(t, err)
	assert.Equal(t, []rdf.Triple(nil), triples)

	_, err = r.Create("broken", converters.Options{})
	assert.ErrorContains(t, err, "assembly_name is required")

	_, err = r.Lookup("gene_disease")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
