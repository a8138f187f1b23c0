package engine

import (
	"spxh/utils/debug"
)

// Dump describes engine state for debug report.
func (e *Engine) Dump() string {
	tw := debug.NewTreeWriter()

	switch st := e.state.(type) {
	case *initState:
		tw.Line(0, "phase: initializing")
		tw.TextBlock(1, "next template", st.nextTemplatePath)
		tw.TextBlock(1, "next output", st.nextOutputPath)
		for _, t := range st.templates {
			tw.Line(1, "template %q (%d bytes)", t.name, len(t.text))
		}
		tw.Map(1, "variables", st.variables)
	case *emitState:
		tw.Line(0, "phase: emitting (sealed: %t)", st.sealed)
		tw.Line(1, "rems per tex unit: %g", st.remsPerTex)
		tw.TextBlock(1, "next template", st.nextTemplatePath)
		tw.TextBlock(1, "next output", st.nextOutputPath)
		if st.canvas != nil {
			tw.Line(1, "open canvas %q depth %d with %d glyphs", st.canvas.kind, st.canvas.depth, len(st.canvas.glyphs))
		}
		tw.TextBlock(1, "pending content", st.content.String())
		context := make(map[string]string, len(st.context))
		for k, v := range st.context {
			if k == "tduxContent" || k == "tduxFontFaces" {
				// large and already on disk
				continue
			}
			context[k] = v
		}
		tw.Map(1, "context", context)
	default:
		invalidState(st)
	}

	fonts := e.fonts()
	tw.Line(0, "fonts: %d declared, %d loaded", len(fonts.infos), len(fonts.data))
	for _, id := range fonts.ids() {
		fi := fonts.infos[id]
		tw.Line(1, "font %d: %s fd=%d size=%d face=%d url=%q", id, fi.Role, fi.FDKey, fi.Size, fi.FaceIndex, fi.RelURL)
	}
	for fdk, fd := range fonts.data {
		tw.Line(1, "fd %d: %q from %q, %d alternate glyphs", fdk, fd.Basename(), fonts.sources[fdk], len(fd.Alternates()))
	}
	tw.Line(0, "assets: %d", e.assets.Len())
	return tw.String()
}
