package plugins

import "github.com/mx-silva/phonond/internal/decoder"

// RegisterAll registers every plugin in this package into reg, in the
// order that becomes probe order for ties (spec.md §4.3: "registration
// order"). mp3 is registered first since it also doubles as the
// by-name fallback target.
func RegisterAll(reg *decoder.Registry) {
	reg.Register(NewMP3Plugin())
	reg.Register(NewFLACPlugin())
	reg.Register(NewVorbisPlugin())
	reg.Register(NewWAVPlugin())
}
