// Package fontfile answers glyph metric and mapping queries against OpenType
// fonts and produces web font files for glyphs without direct Unicode
// mapping.
package fontfile

import (
	"fmt"
)

// Metrics of a single glyph in TeX units at requested size. Descent is
// negative below baseline.
type Metrics struct {
	LSB     int32
	Advance int32
	Ascent  int32
	Descent int32
}

type MapKind int

const (
	// Direct glyph is reachable through font cmap.
	Direct MapKind = iota
	// SubSuperScript glyph is script-style variant of a character.
	SubSuperScript
	// MathGrowingVariant glyph is larger (or otherwise alternate) form of a
	// character.
	MathGrowingVariant
)

func (k MapKind) String() string {
	switch k {
	case Direct:
		return "direct"
	case SubSuperScript:
		return "ssty"
	case MathGrowingVariant:
		return "variant"
	}
	return fmt.Sprintf("MapKind(%d)", int(k))
}

// MapEntry is a reverse mapping of glyph to character.
type MapEntry struct {
	Kind MapKind
	Char rune
	// Level is script level or variant number, zero for direct mappings.
	Level int
}

// AlternateMapping tells how to reach glyph which is not directly mapped: code
// point USV in alternate font number Index.
type AlternateMapping struct {
	USV   rune
	Index int
}
