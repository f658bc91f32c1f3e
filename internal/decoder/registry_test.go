package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectNames(seq func(yield func(*Plugin) bool)) []string {
	var names []string
	seq(func(p *Plugin) bool {
		names = append(names, p.Name)
		return true
	})
	return names
}

func TestRegistryByMIMEPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&Plugin{Name: "first", MIMETypes: []string{"audio/mpeg"}})
	r.Register(&Plugin{Name: "second", MIMETypes: []string{"audio/mpeg"}})

	assert.Equal(t, []string{"first", "second"}, collectNames(r.ByMIME("audio/mpeg")))
}

func TestRegistryByMIMECaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&Plugin{Name: "mp3", MIMETypes: []string{"Audio/MPEG"}})

	assert.Equal(t, []string{"mp3"}, collectNames(r.ByMIME("audio/mpeg")))
}

func TestRegistryBySuffixNoMatch(t *testing.T) {
	r := NewRegistry()
	r.Register(&Plugin{Name: "flac", Suffixes: []string{"flac"}})

	assert.Empty(t, collectNames(r.BySuffix("mp3")))
}

func TestRegistryByNameLookup(t *testing.T) {
	r := NewRegistry()
	want := &Plugin{Name: "mp3"}
	r.Register(want)

	got, ok := r.ByName("mp3")
	assert.True(t, ok)
	assert.Same(t, want, got)

	_, ok = r.ByName("missing")
	assert.False(t, ok)
}

func TestRegistryIterationStopsEarly(t *testing.T) {
	r := NewRegistry()
	r.Register(&Plugin{Name: "a", MIMETypes: []string{"audio/x"}})
	r.Register(&Plugin{Name: "b", MIMETypes: []string{"audio/x"}})
	r.Register(&Plugin{Name: "c", MIMETypes: []string{"audio/x"}})

	var seen []string
	for p := range r.ByMIME("audio/x") {
		seen = append(seen, p.Name)
		if p.Name == "a" {
			break
		}
	}

	assert.Equal(t, []string{"a"}, seen)
}

func TestRegistrySuggestSuffixFindsClosestMatch(t *testing.T) {
	r := NewRegistry()
	r.Register(&Plugin{Name: "flac", Suffixes: []string{"flac"}})
	r.Register(&Plugin{Name: "mp3", Suffixes: []string{"mp3"}})

	suggestion, ok := r.SuggestSuffix("flc")
	assert.True(t, ok)
	assert.Equal(t, "flac", suggestion)
}

func TestRegistrySuggestSuffixEmptyInput(t *testing.T) {
	r := NewRegistry()
	r.Register(&Plugin{Name: "flac", Suffixes: []string{"flac"}})

	_, ok := r.SuggestSuffix("")
	assert.False(t, ok)
}
