// Package trace stores decoded glyph stream events as a sequence of Ion
// structs, so conversion can be replayed without the original decoder.
package trace

import (
	"context"
	"fmt"
	"io"

	"github.com/amazon-ion/ion-go/ion"

	"spxh/xdv"
)

const (
	evHeader  = "header"
	evSpecial = "special"
	evText    = "text"
	evFont    = "font"
	evGlyphs  = "glyphs"
)

type fontDef struct {
	Name      string  `ion:"name"`
	ID        int32   `ion:"id"`
	Size      int32   `ion:"size"`
	FaceIndex uint32  `ion:"face_index,omitempty"`
	Color     *uint32 `ion:"color,omitempty"`
	Extend    *uint32 `ion:"extend,omitempty"`
	Slant     *uint32 `ion:"slant,omitempty"`
	Embolden  *uint32 `ion:"embolden,omitempty"`
}

// record is a single event, only fields relevant to the event kind are set.
type record struct {
	Event    string   `ion:"event"`
	FileType string   `ion:"file_type,omitempty"`
	Data     []byte   `ion:"data,omitempty"`
	X        int32    `ion:"x,omitempty"`
	Y        int32    `ion:"y,omitempty"`
	Font     int32    `ion:"font,omitempty"`
	Text     string   `ion:"text,omitempty"`
	Width    int32    `ion:"width,omitempty"`
	Glyphs   []int32  `ion:"glyphs,omitempty"`
	Xs       []int32  `ion:"xs,omitempty"`
	Ys       []int32  `ion:"ys,omitempty"`
	Def      *fontDef `ion:"def,omitempty"`
}

func (r *record) glyphs() ([]uint16, error) {
	if len(r.Glyphs) != len(r.Xs) || len(r.Glyphs) != len(r.Ys) {
		return nil, fmt.Errorf("glyph and position counts differ: %d/%d/%d", len(r.Glyphs), len(r.Xs), len(r.Ys))
	}
	glyphs := make([]uint16, len(r.Glyphs))
	for i, g := range r.Glyphs {
		if g < 0 || g > 0xFFFF {
			return nil, fmt.Errorf("glyph id %d out of range", g)
		}
		glyphs[i] = uint16(g)
	}
	return glyphs, nil
}

func (r *record) dispatch(ev xdv.Events) error {
	switch r.Event {
	case evHeader:
		ft, err := xdv.ParseFileType(r.FileType)
		if err != nil {
			return err
		}
		return ev.Header(ft, r.Data)
	case evSpecial:
		return ev.Special(r.X, r.Y, r.Data)
	case evText:
		glyphs, err := r.glyphs()
		if err != nil {
			return err
		}
		return ev.TextAndGlyphs(r.Font, r.Text, r.Width, glyphs, r.Xs, r.Ys)
	case evFont:
		if r.Def == nil {
			return fmt.Errorf("font event without definition")
		}
		return ev.DefineNativeFont(xdv.FontDef(*r.Def))
	case evGlyphs:
		glyphs, err := r.glyphs()
		if err != nil {
			return err
		}
		return ev.GlyphRun(r.Font, glyphs, r.Xs, r.Ys)
	}
	return fmt.Errorf("unknown event '%s'", r.Event)
}

// Replay decodes events from r and delivers them to ev in order. It stops at
// the first error returned by ev or when ctx is done.
func Replay(ctx context.Context, r io.Reader, ev xdv.Events) error {
	dec := ion.NewDecoder(ion.NewReader(r))
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		var rec record
		if err := dec.DecodeTo(&rec); err != nil {
			if err == ion.ErrNoInput {
				return nil
			}
			return fmt.Errorf("unable to decode trace event %d: %w", n, err)
		}
		if err := rec.dispatch(ev); err != nil {
			return fmt.Errorf("trace event %d (%s): %w", n, rec.Event, err)
		}
	}
}
