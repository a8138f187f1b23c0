// Package xdv defines callbacks a positioned glyph stream decoder delivers.
package xdv

import (
	"fmt"
	"strings"
)

type FileType int

const (
	Dvi FileType = iota
	Xdv
	Spx
)

var fileTypeNames = []string{"dvi", "xdv", "spx"}

func (t FileType) String() string {
	if int(t) < 0 || int(t) >= len(fileTypeNames) {
		return fmt.Sprintf("FileType(%d)", int(t))
	}
	return fileTypeNames[t]
}

func ParseFileType(name string) (FileType, error) {
	for i, n := range fileTypeNames {
		if strings.EqualFold(n, name) {
			return FileType(i), nil
		}
	}
	return 0, fmt.Errorf("%s is not a valid file type", name)
}

// FontDef describes a native font definition.
type FontDef struct {
	Name      string
	ID        int32
	Size      int32
	FaceIndex uint32
	Color     *uint32
	Extend    *uint32
	Slant     *uint32
	Embolden  *uint32
}

// Events is implemented by stream consumers. Coordinates and sizes are TeX
// scaled points. Any returned error aborts processing.
type Events interface {
	Header(ft FileType, comment []byte) error
	Special(x, y int32, contents []byte) error
	TextAndGlyphs(font int32, text string, width int32, glyphs []uint16, x, y []int32) error
	DefineNativeFont(def FontDef) error
	GlyphRun(font int32, glyphs []uint16, x, y []int32) error
}
