package nanopub

import (
	"sort"

	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/biosemantics/nanoconv/pkg/vocab"
)

// Profile names
const (
	ProfileNanopub20 = "nanopub-2.0"
	ProfileLegacy    = "nanopub-legacy"
)

// Profile is one versioned nanopublication schema. Profiles are mutually
// exclusive; a run uses exactly one.
type Profile struct {
	Name string

	// Graph name suffixes appended to "<nanopub>#"
	AssertionSuffix       string
	ProvenanceSuffix      string
	PublicationInfoSuffix string

	// Head graph links
	HasAssertion       vocab.IRI
	HasProvenance      vocab.IRI
	HasPublicationInfo vocab.IRI

	// Provenance pair predicates
	DerivedFrom vocab.IRI
	GeneratedBy vocab.IRI
}

var profiles = map[string]Profile{
	ProfileNanopub20: {
		Name:                  ProfileNanopub20,
		AssertionSuffix:       "assertion",
		ProvenanceSuffix:      "provenance",
		PublicationInfoSuffix: "publicationInfo",
		HasAssertion:          vocab.NP.Must("hasAssertion"),
		HasProvenance:         vocab.NP.Must("hasProvenance"),
		HasPublicationInfo:    vocab.NP.Must("hasPublicationInfo"),
		DerivedFrom:           vocab.PROV.Must("wasDerivedFrom"),
		GeneratedBy:           vocab.PROV.Must("wasGeneratedBy"),
	},
	ProfileLegacy: {
		Name:                  ProfileLegacy,
		AssertionSuffix:       "assertion",
		ProvenanceSuffix:      "supporting",
		PublicationInfoSuffix: "attribution",
		HasAssertion:          vocab.NP.Must("hasAssertion"),
		HasProvenance:         vocab.NP.Must("hasSupporting"),
		HasPublicationInfo:    vocab.NP.Must("hasAttribution"),
		DerivedFrom:           vocab.PROV.Must("derivedFrom"),
		GeneratedBy:           vocab.OBO.Must("RO_0003001"),
	},
}

// LookupProfile returns the profile registered under name
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, errors.Newf(errors.ErrorTypeConfig, "unknown nanopublication profile %q", name).
			WithDetail("available", ProfileNames())
	}
	return p, nil
}

// ProfileNames lists the known profiles in sorted order
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
