package engine

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"spxh/assets"
	"spxh/fontfile"
	"spxh/hooks"
)

// FontData answers queries about a loaded font file.
type FontData interface {
	Basename() string
	BaselineFactor() float64
	LookupMetrics(gid uint16, size int32) (fontfile.Metrics, bool)
	LookupMapping(gid uint16) (fontfile.MapEntry, bool)
	RequestAlternative(gid uint16, ch rune) fontfile.AlternateMapping
	Alternates() map[uint16]fontfile.AlternateMapping
	AlternateName(index int) string
	Emit(outBase, familyPrefix string, faces *strings.Builder) error
}

// FontLoader parses font file data.
type FontLoader func(basename string, data []byte, faceIndex uint32) (FontData, error)

// NewFontLoader returns loader producing fontfile.Font.
func NewFontLoader(log *zap.Logger) FontLoader {
	return func(basename string, data []byte, faceIndex uint32) (FontData, error) {
		return fontfile.Load(basename, data, faceIndex, log)
	}
}

type FontRole int

const (
	MainBody FontRole = iota
)

func (r FontRole) String() string {
	if r == MainBody {
		return "main-body"
	}
	return fmt.Sprintf("FontRole(%d)", int(r))
}

// FontInfo describes font declared in the stream.
type FontInfo struct {
	Role      FontRole
	RelURL    string
	FDKey     int
	Size      int32
	FaceIndex uint32
	Color     *uint32
	Extend    *uint32
	Slant     *uint32
	Embolden  *uint32
}

type fdKey struct {
	name string
	face uint32
}

// fontTable is the per-run font registry. Font data is a dense arena indexed
// by fd key.
type fontTable struct {
	infos   map[int32]*FontInfo
	keys    map[fdKey]int
	data    []FontData
	sources []string
	copied  map[string]bool

	// the last defined font is taken to be the main body font
	mainBodySize int32
	mainBodyKey  int

	faces *string
}

func newFontTable() *fontTable {
	return &fontTable{
		infos:  make(map[int32]*FontInfo),
		keys:   make(map[fdKey]int),
		copied: make(map[string]bool),
	}
}

func familyName(fdk int) string {
	return fmt.Sprintf("tdux%d", fdk)
}

func alternateFamilyName(fdk, index int) string {
	return fmt.Sprintf("tdux%dvg%d", fdk, index)
}

// Emit writes font files and returns @font-face declarations. Files are
// written once, later calls return remembered declarations.
func (t *fontTable) Emit(c *hooks.Common) (string, error) {
	if t.faces != nil {
		return *t.faces, nil
	}
	var faces strings.Builder
	for fdk, fd := range t.data {
		if err := fd.Emit(c.OutBase, familyName(fdk), &faces); err != nil {
			return "", fmt.Errorf("unable to emit font '%s': %w", fd.Basename(), err)
		}
	}
	s := faces.String()
	t.faces = &s
	return s, nil
}

func alternateCount(fd FontData) int {
	n := 0
	for _, am := range fd.Alternates() {
		n = max(n, am.Index+1)
	}
	return n
}

func (t *fontTable) Families() map[string]assets.FontFamily {
	families := make(map[string]assets.FontFamily)
	for fdk, fd := range t.data {
		families[familyName(fdk)] = assets.FontFamily{
			Faces: map[assets.FaceType]string{assets.FaceTypeRegular: fd.Basename()},
		}
		for i := range alternateCount(fd) {
			families[alternateFamilyName(fdk, i)] = assets.FontFamily{
				Faces: map[assets.FaceType]string{assets.FaceTypeRegular: fd.AlternateName(i)},
			}
		}
	}
	return families
}

func (t *fontTable) Files() map[string]assets.FontFile {
	files := make(map[string]assets.FontFile)
	for fdk, fd := range t.data {
		f := assets.FontFile{Source: t.sources[fdk]}
		if alts := fd.Alternates(); len(alts) > 0 {
			f.VGlyphs = make(map[uint16]assets.GlyphVariant, len(alts))
			for gid, am := range alts {
				f.VGlyphs[gid] = assets.GlyphVariant{USV: string(am.USV), Index: am.Index}
			}
		}
		files[fd.Basename()] = f
	}
	return files
}

// ids returns declared font ids in ascending order.
func (t *fontTable) ids() []int32 {
	ids := make([]int32, 0, len(t.infos))
	for id := range t.infos {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
