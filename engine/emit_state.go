package engine

import (
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"spxh/hooks"
	"spxh/outpath"
	"spxh/special"
)

// emitState accumulates HTML content and writes output files.
type emitState struct {
	opts       *Options
	fonts      *fontTable
	remsPerTex float32

	nextTemplatePath string
	nextOutputPath   string
	context          map[string]string

	content strings.Builder
	canvas  *canvasState

	sealed       bool
	warnedSealed bool
}

// dropSealed reports content arriving after contentFinished, only once.
func (s *emitState) dropSealed(c *hooks.Common, what string) {
	if s.warnedSealed {
		return
	}
	s.warnedSealed = true
	c.Sink.Warn("Dropping post-finish content, further drops will not be reported", zap.String("content", what))
}

func (s *emitState) escape(text string) string {
	if s.opts.EscapeText {
		return html.EscapeString(text)
	}
	return text
}

// separate inserts space between text chunks unless previous chunk ends with
// a tag.
func (s *emitState) separate() {
	if s.content.Len() > 0 && !strings.HasSuffix(s.content.String(), ">") {
		s.content.WriteByte(' ')
	}
}

func (s *emitState) handleSpecial(c *hooks.Common, x, y int32, sp special.Special) error {
	if s.sealed && sp.Kind != special.Emit && sp.Kind != special.ContentFinished {
		s.dropSealed(c, sp.Raw)
		return nil
	}

	switch sp.Kind {
	case special.StartTag:
		fmt.Fprintf(&s.content, "<%s>", sp.Arg)

	case special.EndTag:
		fmt.Fprintf(&s.content, "</%s>", sp.Arg)

	case special.CanvasStart:
		if s.canvas != nil {
			s.canvas.depth++
		} else {
			s.canvas = newCanvasState(sp.Arg, x, y)
		}

	case special.CanvasEnd:
		if s.canvas == nil {
			c.Sink.Warn("Ignoring unpaired canvas end", zap.String("special", sp.Raw))
			return nil
		}
		s.canvas.depth--
		if s.canvas.depth == 0 {
			cs := s.canvas
			s.canvas = nil
			return s.closeCanvas(c, cs)
		}

	case special.Emit:
		return s.finishFile(c)

	case special.ContentFinished:
		return s.contentFinished(c)

	case special.AddTemplate:
		data, err := c.ReadAll(sp.Arg)
		if err != nil {
			return fmt.Errorf("unable to load template: %w", err)
		}
		return s.opts.Templates.AddTemplate(sp.Arg, string(data))

	case special.SetTemplate:
		s.nextTemplatePath = sp.Arg

	case special.SetOutputPath:
		s.nextOutputPath = sp.Arg

	case special.SetTemplateVariable:
		name, value, ok := sp.Pair()
		if !ok {
			c.Sink.Warn("Ignoring malformed template variable special", zap.String("special", sp.Raw))
			return nil
		}
		s.context[name] = value

	case special.ProvideFile:
		src, dest, ok := sp.Pair()
		if !ok {
			c.Sink.Warn("Ignoring malformed special", zap.String("special", sp.Raw))
			return nil
		}
		path, _, err := outpath.Resolve(c.OutBase, dest)
		if err != nil {
			return err
		}
		return c.CopyFile(src, path)

	default:
		if sp.Ours() {
			c.Sink.Warn("Ignoring unrecognized special", zap.String("special", sp.Raw))
		}
	}
	return nil
}

func (s *emitState) handleTextAndGlyphs(c *hooks.Common, font int32, text string, glyphs []uint16, x, y []int32) error {
	if s.sealed {
		s.dropSealed(c, text)
		return nil
	}
	if s.canvas != nil {
		s.canvas.add(font, glyphs, x, y)
		return nil
	}
	s.separate()
	s.content.WriteString(s.escape(text))
	return nil
}

func (s *emitState) handleGlyphRun(c *hooks.Common, font int32, glyphs []uint16, x, y []int32) error {
	if s.sealed {
		s.dropSealed(c, "glyph run")
		return nil
	}
	if s.canvas == nil {
		c.Sink.Warn("Ignoring glyph run outside of canvas", zap.Int32("font", font), zap.Int("glyphs", len(glyphs)))
		return nil
	}
	s.canvas.add(font, glyphs, x, y)
	return nil
}

// finishFile renders accumulated content into the next output file. Template
// is read anew every time so templates may be generated during the run.
func (s *emitState) finishFile(c *hooks.Common) error {
	path, levels, err := outpath.Resolve(c.OutBase, s.nextOutputPath)
	if err != nil {
		return err
	}
	if s.nextTemplatePath == "" {
		return fmt.Errorf("no template has been set for output '%s'", s.nextOutputPath)
	}

	s.context["tduxContent"] = s.content.String()
	s.context["tduxRelTop"] = outpath.RelTop(levels)

	text, err := c.ReadAll(s.nextTemplatePath)
	if err != nil {
		return fmt.Errorf("unable to load template: %w", err)
	}
	rendered, err := s.opts.Templates.Render(s.nextTemplatePath, string(text), s.context)
	if err != nil {
		return err
	}
	if err := hooks.WriteFile(path, strings.NewReader(rendered)); err != nil {
		return err
	}
	s.content.Reset()
	return nil
}

func (s *emitState) contentFinished(c *hooks.Common) error {
	if s.content.Len() > 0 {
		c.Sink.Warn("Dropping un-emitted content at content finish", zap.Int("bytes", s.content.Len()))
		s.content.Reset()
	}

	faces, err := s.fonts.Emit(c)
	if err != nil {
		return err
	}
	s.context["tduxFontFaces"] = faces
	if len(s.fonts.data) > 0 {
		s.context["tduxMainBodyFontFamily"] = familyName(s.fonts.mainBodyKey)
	}
	s.sealed = true
	return nil
}
