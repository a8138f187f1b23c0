package engine

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"spxh/fontfile"
	"spxh/hooks"
)

// GlyphInfo is a glyph positioned relative to canvas origin.
type GlyphInfo struct {
	DX, DY int32
	Glyph  uint16
	Font   int32
}

type canvasState struct {
	kind   string
	depth  int
	x0, y0 int32
	glyphs []GlyphInfo
}

func newCanvasState(kind string, x, y int32) *canvasState {
	return &canvasState{kind: kind, depth: 1, x0: x, y0: y}
}

func (cs *canvasState) add(font int32, glyphs []uint16, x, y []int32) {
	for i, g := range glyphs {
		cs.glyphs = append(cs.glyphs, GlyphInfo{DX: x[i] - cs.x0, DY: y[i] - cs.y0, Glyph: g, Font: font})
	}
}

// bbox in TeX units relative to canvas origin, y grows down.
type bbox struct {
	xmin, xmax, ymin, ymax int32
}

// bounds returns union of boxes of all glyphs with known metrics.
func (t *fontTable) bounds(glyphs []GlyphInfo) (bbox, error) {
	var (
		b     bbox
		first = true
	)
	for _, g := range glyphs {
		fi, ok := t.infos[g.Font]
		if !ok {
			return bbox{}, fmt.Errorf("undeclared font %d used in canvas", g.Font)
		}
		m, ok := t.data[fi.FDKey].LookupMetrics(g.Glyph, fi.Size)
		if !ok {
			continue
		}
		gb := bbox{
			xmin: g.DX - m.LSB,
			xmax: g.DX + m.Advance,
			ymin: g.DY - m.Ascent,
			ymax: g.DY - m.Descent,
		}
		if first {
			b, first = gb, false
			continue
		}
		b.xmin, b.xmax = min(b.xmin, gb.xmin), max(b.xmax, gb.xmax)
		b.ymin, b.ymax = min(b.ymin, gb.ymin), max(b.ymax, gb.ymax)
	}
	return b, nil
}

func rem(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// closeCanvas lays out glyphs of the canvas as absolutely positioned spans.
// Bottom of inline canvas is placed ymax below the surrounding baseline.
func (s *emitState) closeCanvas(c *hooks.Common, cs *canvasState) error {
	s.separate()

	b, err := s.fonts.bounds(cs.glyphs)
	if err != nil {
		return err
	}

	var inner strings.Builder
	for _, g := range cs.glyphs {
		fi := s.fonts.infos[g.Font]
		fd := s.fonts.data[fi.FDKey]

		e, ok := fd.LookupMapping(g.Glyph)
		if !ok {
			c.Sink.Warn("Unable to reverse-map glyph", zap.Uint16("glyph", g.Glyph), zap.String("font", fi.RelURL), zap.Uint32("face", fi.FaceIndex))
			continue
		}

		ch, family := e.Char, familyName(fi.FDKey)
		if e.Kind != fontfile.Direct {
			am := fd.RequestAlternative(g.Glyph, e.Char)
			ch, family = am.USV, alternateFamilyName(fi.FDKey, am.Index)
		}

		relSize := float32(fi.Size) * s.remsPerTex
		top := float32(-b.ymin+g.DY)*s.remsPerTex - float32(fd.BaselineFactor())*relSize
		left := float32(g.DX) * s.remsPerTex

		fmt.Fprintf(&inner, `<span class="ci" style="top: %srem; left: %srem; font-size: %srem; font-family: %s">%s</span>`,
			rem(top), rem(left), rem(relSize), family, s.escape(string(ch)))
	}

	element, layout := "div", "canvas-block"
	inline := cs.kind == "math"
	if inline {
		element, layout = "span", "canvas-inline"
	}

	fmt.Fprintf(&s.content, `<%s class="canvas %s" style="width: %srem; height: %srem; padding-left: %srem`,
		element, layout,
		rem(float32(b.xmax-b.xmin)*s.remsPerTex),
		rem(float32(b.ymax-b.ymin)*s.remsPerTex),
		rem(float32(-b.xmin)*s.remsPerTex))
	if inline {
		fmt.Fprintf(&s.content, "; vertical-align: %srem", rem(float32(-b.ymax)*s.remsPerTex))
	}
	fmt.Fprintf(&s.content, `">%s</%s>`, inner.String(), element)
	return nil
}
