package fontfile

import (
	"bytes"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-text/typesetting/font"
	"go.uber.org/zap"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyph"
)

// Font is a loaded font face.
type Font struct {
	log       *zap.Logger
	basename  string
	data      []byte
	faceIndex uint32

	face     *font.Face
	upem     float64
	baseline float64
	rmap     map[uint16]MapEntry

	// alternates[i] maps code point to glyph in alternate font i
	alternates []map[rune]uint16
	vglyphs    map[uint16]AlternateMapping
	nextPUA    rune
}

const (
	puaFirst rune = 0xE000
	puaLast  rune = 0xF8FF
)

// Load parses font data. Basename is the name font file has in the output
// directory.
func Load(basename string, data []byte, faceIndex uint32, log *zap.Logger) (*Font, error) {
	face, err := parseFace(data, faceIndex)
	if err != nil {
		return nil, fmt.Errorf("unable to parse font '%s' (face %d): %w", basename, faceIndex, err)
	}

	f := &Font{
		log:       log.Named("fontfile").With(zap.String("font", basename), zap.Uint32("face", faceIndex)),
		basename:  basename,
		data:      data,
		faceIndex: faceIndex,
		face:      face,
		upem:      float64(face.Upem()),
		rmap:      make(map[uint16]MapEntry),
		vglyphs:   make(map[uint16]AlternateMapping),
		nextPUA:   puaFirst,
	}
	if f.upem == 0 {
		f.upem = 1000
	}

	f.baseline = 0.5
	if ext, ok := face.FontHExtents(); ok {
		// with "line-height: 1" glyph box is centered on the font height
		f.baseline = 0.5 * (1 + float64(ext.Ascender)/f.upem + float64(ext.Descender)/f.upem)
	}

	it := face.Cmap.Iter()
	for it.Next() {
		r, gid := it.Char()
		g := uint16(gid)
		if e, ok := f.rmap[g]; ok && e.Char < r {
			continue
		}
		f.rmap[g] = MapEntry{Kind: Direct, Char: r}
	}

	if faceIndex == 0 {
		f.mapVariants()
	} else {
		f.log.Debug("Variant glyph detection is not available for collection faces")
	}
	return f, nil
}

func parseFace(data []byte, faceIndex uint32) (*font.Face, error) {
	if faceIndex == 0 {
		if face, err := font.ParseTTF(bytes.NewReader(data)); err == nil {
			return face, nil
		}
	}
	faces, err := font.ParseTTC(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if int(faceIndex) >= len(faces) {
		return nil, fmt.Errorf("face index out of range, collection has %d faces", len(faces))
	}
	return faces[faceIndex], nil
}

// mapVariants uses glyph names to find unencoded variants of encoded glyphs:
// "one.ssty1" is script variant of "one", "parenleft.v3" or "uni222B.size2"
// are growing variants.
func (f *Font) mapVariants() {
	sf, err := sfnt.Read(bytes.NewReader(f.data))
	if err != nil {
		f.log.Debug("Unable to read glyph names, variant glyphs will not be mapped", zap.Error(err))
		return
	}

	n := sf.NumGlyphs()
	byName := make(map[string]uint16, n)
	for gid := range n {
		if name := sf.GlyphName(glyph.ID(gid)); name != "" {
			byName[name] = uint16(gid)
		}
	}

	for gid := range n {
		g := uint16(gid)
		if _, ok := f.rmap[g]; ok {
			continue
		}
		base, suffix, ok := strings.Cut(sf.GlyphName(glyph.ID(gid)), ".")
		if !ok || base == "" || suffix == "" {
			continue
		}
		ch, ok := f.baseChar(base, byName)
		if !ok {
			continue
		}
		e := MapEntry{Kind: MathGrowingVariant, Char: ch, Level: suffixLevel(suffix)}
		if strings.HasPrefix(suffix, "ssty") || strings.HasPrefix(suffix, "st") {
			e.Kind = SubSuperScript
			if e.Level == 0 {
				e.Level = 1
			}
		}
		f.rmap[g] = e
	}
}

func (f *Font) baseChar(base string, byName map[string]uint16) (rune, bool) {
	if gid, ok := byName[base]; ok {
		if e, ok := f.rmap[gid]; ok && e.Kind == Direct {
			return e.Char, true
		}
	}
	for _, prefix := range []string{"uni", "u"} {
		if hex, ok := strings.CutPrefix(base, prefix); ok && len(hex) >= 4 && len(hex) <= 6 {
			if v, err := strconv.ParseUint(hex, 16, 32); err == nil && v <= 0x10FFFF {
				return rune(v), true
			}
		}
	}
	return 0, false
}

func suffixLevel(suffix string) int {
	i := len(suffix)
	for i > 0 && suffix[i-1] >= '0' && suffix[i-1] <= '9' {
		i--
	}
	level, _ := strconv.Atoi(suffix[i:])
	return level
}

// Basename returns name of the font file in the output directory.
func (f *Font) Basename() string {
	return f.basename
}

// RelURL returns percent encoded url of the font file relative to output
// directory.
func (f *Font) RelURL() string {
	return url.PathEscape(f.basename)
}

// BaselineFactor returns position of the baseline below top of the glyph box
// in units of font size, for CSS "line-height: 1".
func (f *Font) BaselineFactor() float64 {
	return f.baseline
}

// LookupMetrics returns glyph metrics at TeX size.
func (f *Font) LookupMetrics(gid uint16, size int32) (Metrics, bool) {
	ext, ok := f.face.GlyphExtents(font.GID(gid))
	if !ok {
		return Metrics{}, false
	}
	scale := float64(size) / f.upem
	conv := func(v float32) int32 {
		return int32(math.Round(float64(v) * scale))
	}
	return Metrics{
		LSB:     conv(ext.XBearing),
		Advance: conv(f.face.HorizontalAdvance(font.GID(gid))),
		Ascent:  conv(ext.YBearing),
		Descent: conv(ext.YBearing + ext.Height),
	}, true
}

// LookupMapping returns character glyph represents.
func (f *Font) LookupMapping(gid uint16) (MapEntry, bool) {
	e, ok := f.rmap[gid]
	return e, ok
}

// RequestAlternative returns code point and alternate font number to reach
// glyph which is not directly mapped. Allocation is stable for the glyph.
func (f *Font) RequestAlternative(gid uint16, ch rune) AlternateMapping {
	if am, ok := f.vglyphs[gid]; ok {
		return am
	}

	usv := ch
	if usv > 0xFFFF || usv < 0x20 {
		// alternate fonts carry BMP only cmap
		usv = f.allocPUA()
	}

	am := AlternateMapping{USV: usv, Index: len(f.alternates)}
	for i, m := range f.alternates {
		if _, used := m[usv]; !used {
			am.Index = i
			break
		}
	}
	if am.Index == len(f.alternates) {
		f.alternates = append(f.alternates, make(map[rune]uint16))
	}
	f.alternates[am.Index][usv] = gid
	f.vglyphs[gid] = am
	return am
}

func (f *Font) allocPUA() rune {
	r := f.nextPUA
	if r == puaLast {
		// wrap around, subsequent allocations land in new alternate fonts
		f.nextPUA = puaFirst
	} else {
		f.nextPUA++
	}
	return r
}

// Alternates returns all glyphs allocated so far.
func (f *Font) Alternates() map[uint16]AlternateMapping {
	return f.vglyphs
}
