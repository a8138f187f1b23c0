package assets

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/maruel/natural"
	yaml "gopkg.in/yaml.v3"
)

// FontFamily lists face files of a single CSS font family.
type FontFamily struct {
	Faces map[FaceType]string `yaml:"faces"`
}

// GlyphVariant tells which code point of which alternate font reaches the
// glyph.
type GlyphVariant struct {
	USV   string `yaml:"usv"`
	Index int    `yaml:"index"`
}

// FontFile describes custom font file and glyphs requiring alternate fonts.
type FontFile struct {
	Source  string                  `yaml:"source"`
	VGlyphs map[uint16]GlyphVariant `yaml:"vglyphs,omitempty"`
}

// Origin tells how to produce output file.
type Origin struct {
	Kind OriginKind `yaml:"kind"`
	// Source of the copy.
	Source string `yaml:"source,omitempty"`
	// Families of the generated font CSS.
	Families map[string]FontFamily `yaml:"families,omitempty"`
	// Font file data.
	Font *FontFile `yaml:"font,omitempty"`
}

// Manifest maps output path to its origin. It is everything needed to
// reproduce assets of a run without processing document again.
type Manifest map[string]Origin

// Paths returns output paths in natural order.
func (m Manifest) Paths() []string {
	return sortedNatural(slices.Collect(maps.Keys(m)))
}

func (m Manifest) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]Origin(m)); err != nil {
		return 0, fmt.Errorf("unable to encode asset manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("unable to encode asset manifest: %w", err)
	}
	return buf.WriteTo(w)
}

// ReadManifest reconstructs manifest previously written with WriteTo.
func ReadManifest(r io.Reader) (Manifest, error) {
	m := Manifest{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && err != io.EOF {
		return nil, fmt.Errorf("unable to decode asset manifest: %w", err)
	}
	for path, o := range m {
		if err := checkDestination(path); err != nil {
			return nil, fmt.Errorf("asset manifest entry rejected: %w", err)
		}
		if o.Kind == OriginKindCopy && o.Source == "" {
			return nil, fmt.Errorf("asset '%s' is a copy without source", path)
		}
	}
	return m, nil
}

func sortedNatural(keys []string) []string {
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	return keys
}
