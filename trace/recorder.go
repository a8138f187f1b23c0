package trace

import (
	"fmt"
	"io"

	"github.com/amazon-ion/ion-go/ion"

	"spxh/xdv"
)

// Recorder implements xdv.Events writing every event as Ion text. When next
// is not nil events are passed on after being recorded.
type Recorder struct {
	w    ion.Writer
	next xdv.Events
}

func NewRecorder(w io.Writer, next xdv.Events) *Recorder {
	return &Recorder{w: ion.NewTextWriter(w), next: next}
}

func (r *Recorder) record(rec *record) error {
	if err := ion.MarshalTo(r.w, rec); err != nil {
		return fmt.Errorf("unable to record %s event: %w", rec.Event, err)
	}
	return nil
}

func glyphIDs(glyphs []uint16) []int32 {
	out := make([]int32, len(glyphs))
	for i, g := range glyphs {
		out[i] = int32(g)
	}
	return out
}

func (r *Recorder) Header(ft xdv.FileType, comment []byte) error {
	if err := r.record(&record{Event: evHeader, FileType: ft.String(), Data: comment}); err != nil {
		return err
	}
	if r.next == nil {
		return nil
	}
	return r.next.Header(ft, comment)
}

func (r *Recorder) Special(x, y int32, contents []byte) error {
	if err := r.record(&record{Event: evSpecial, X: x, Y: y, Data: contents}); err != nil {
		return err
	}
	if r.next == nil {
		return nil
	}
	return r.next.Special(x, y, contents)
}

func (r *Recorder) TextAndGlyphs(font int32, text string, width int32, glyphs []uint16, x, y []int32) error {
	rec := &record{Event: evText, Font: font, Text: text, Width: width, Glyphs: glyphIDs(glyphs), Xs: x, Ys: y}
	if err := r.record(rec); err != nil {
		return err
	}
	if r.next == nil {
		return nil
	}
	return r.next.TextAndGlyphs(font, text, width, glyphs, x, y)
}

func (r *Recorder) DefineNativeFont(def xdv.FontDef) error {
	fd := fontDef(def)
	if err := r.record(&record{Event: evFont, Def: &fd}); err != nil {
		return err
	}
	if r.next == nil {
		return nil
	}
	return r.next.DefineNativeFont(def)
}

func (r *Recorder) GlyphRun(font int32, glyphs []uint16, x, y []int32) error {
	if err := r.record(&record{Event: evGlyphs, Font: font, Glyphs: glyphIDs(glyphs), Xs: x, Ys: y}); err != nil {
		return err
	}
	if r.next == nil {
		return nil
	}
	return r.next.GlyphRun(font, glyphs, x, y)
}

// Close flushes recorded events.
func (r *Recorder) Close() error {
	return r.w.Finish()
}
