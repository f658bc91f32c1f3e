package decoder

import (
	"iter"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Registry holds the ordered set of available decoder plugins. spec.md's
// redesign note calls out the original's unsigned-index "for i := 0;
// plugin = plugins[i]; i++" enumeration idiom as something Go should not
// reproduce; a range-over-func iterator is the idiomatic replacement
// and reads the same at call sites regardless of how plugins are
// stored internally.
type Registry struct {
	plugins []*Plugin
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a plugin. Order is significant: it is probe order,
// matching MPD's decoder_plugins[] array order.
func (r *Registry) Register(p *Plugin) {
	r.plugins = append(r.plugins, p)
}

// All iterates every registered plugin in registration order.
func (r *Registry) All() iter.Seq[*Plugin] {
	return func(yield func(*Plugin) bool) {
		for _, p := range r.plugins {
			if !yield(p) {
				return
			}
		}
	}
}

// ByMIME iterates plugins whose MIMETypes contains mime, in
// registration order, for the MIME-probe pass.
func (r *Registry) ByMIME(mime string) iter.Seq[*Plugin] {
	return func(yield func(*Plugin) bool) {
		if mime == "" {
			return
		}
		for _, p := range r.plugins {
			for _, m := range p.MIMETypes {
				if strings.EqualFold(m, mime) {
					if !yield(p) {
						return
					}
					break
				}
			}
		}
	}
}

// BySuffix iterates plugins whose Suffixes contains suffix (case
// insensitive, no leading dot expected), for the suffix-probe pass.
func (r *Registry) BySuffix(suffix string) iter.Seq[*Plugin] {
	return func(yield func(*Plugin) bool) {
		if suffix == "" {
			return
		}
		for _, p := range r.plugins {
			for _, s := range p.Suffixes {
				if strings.EqualFold(s, suffix) {
					if !yield(p) {
						return
					}
					break
				}
			}
		}
	}
}

// ByName looks up a single plugin by its exact registered name.
func (r *Registry) ByName(name string) (*Plugin, bool) {
	for _, p := range r.plugins {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// SuggestSuffix finds the registered suffix closest to the unrecognised
// one, for the UNKNOWN_TYPE diagnostic ("did you mean .flac?"). It never
// affects dispatch — only the message logged alongside ErrorUnknownType.
func (r *Registry) SuggestSuffix(suffix string) (string, bool) {
	if suffix == "" {
		return "", false
	}
	suffix = strings.ToLower(suffix)

	best := ""
	bestDistance := -1
	for _, p := range r.plugins {
		for _, known := range p.Suffixes {
			d := fuzzy.LevenshteinDistance(suffix, strings.ToLower(known))
			if bestDistance == -1 || d < bestDistance {
				bestDistance = d
				best = known
			}
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
