// Package engine converts SPX event stream into HTML files.
//
// Engine starts in initialization phase collecting templates, variables and
// font definitions. The first event that needs rendering context switches it
// into emitting phase for the rest of the run.
package engine

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"spxh/assets"
	"spxh/hooks"
	"spxh/special"
	"spxh/xdv"
)

type Options struct {
	// DefaultOutputPath is used when document does not set output path
	// before first file is emitted.
	DefaultOutputPath string
	// DeferProvidedFiles routes provideFile requests to asset manager.
	DeferProvidedFiles bool
	// EscapeText HTML-escapes document text.
	EscapeText bool

	Templates Templater
	Loader    FontLoader
}

// Engine implements xdv.Events. It is not safe for concurrent use.
type Engine struct {
	c      *hooks.Common
	log    *zap.Logger
	opts   Options
	assets *assets.Manager

	// either *initState or *emitState
	state any
}

func New(c *hooks.Common, opts Options, log *zap.Logger) *Engine {
	log = log.Named("engine")
	if opts.DefaultOutputPath == "" {
		opts.DefaultOutputPath = "index.html"
	}
	if opts.Templates == nil {
		opts.Templates = NewTemplates()
	}
	if opts.Loader == nil {
		opts.Loader = NewFontLoader(log)
	}
	return &Engine{
		c:      c,
		log:    log,
		opts:   opts,
		assets: assets.NewManager(),
		state:  newInitState(),
	}
}

func invalidState(st any) {
	panic(fmt.Sprintf("invalid engine state leaked: %T", st))
}

// ensureInitialized leaves initialization phase, does nothing if already
// emitting.
func (e *Engine) ensureInitialized() error {
	switch st := e.state.(type) {
	case *initState:
		es, err := st.finish(&e.opts)
		if err != nil {
			return err
		}
		e.state = es
		e.log.Debug("Initialization finished", zap.Int("fonts", len(es.fonts.infos)), zap.String("output", es.nextOutputPath))
	case *emitState:
	default:
		invalidState(st)
	}
	return nil
}

func (e *Engine) emitting() (*emitState, error) {
	if err := e.ensureInitialized(); err != nil {
		return nil, err
	}
	return e.state.(*emitState), nil
}

func (e *Engine) fonts() *fontTable {
	switch st := e.state.(type) {
	case *initState:
		return st.fonts
	case *emitState:
		return st.fonts
	default:
		invalidState(st)
	}
	return nil
}

func (e *Engine) Header(ft xdv.FileType, comment []byte) error {
	if ft != xdv.Spx {
		return fmt.Errorf("file should be SPX format but got %s", ft)
	}
	e.log.Debug("Stream header", zap.ByteString("comment", comment))
	return nil
}

func (e *Engine) Special(x, y int32, contents []byte) error {
	if !utf8.Valid(contents) {
		return fmt.Errorf("could not parse special as UTF-8: %q", contents)
	}
	sp := special.Parse(string(contents))

	if sp.Kind == special.ProvideSpecial || (sp.Kind == special.ProvideFile && e.opts.DeferProvidedFiles) {
		e.assets.TryHandleSpecial(sp, e.c)
		return nil
	}

	if sp.NeedsRendering() {
		if err := e.ensureInitialized(); err != nil {
			return err
		}
	}

	switch st := e.state.(type) {
	case *initState:
		return st.handleSpecial(e.c, sp)
	case *emitState:
		return st.handleSpecial(e.c, x, y, sp)
	default:
		invalidState(st)
	}
	return nil
}

func (e *Engine) TextAndGlyphs(font int32, text string, _ int32, glyphs []uint16, x, y []int32) error {
	st, err := e.emitting()
	if err != nil {
		return err
	}
	return st.handleTextAndGlyphs(e.c, font, text, glyphs, x, y)
}

func (e *Engine) GlyphRun(font int32, glyphs []uint16, x, y []int32) error {
	st, err := e.emitting()
	if err != nil {
		return err
	}
	return st.handleGlyphRun(e.c, font, glyphs, x, y)
}

func (e *Engine) DefineNativeFont(def xdv.FontDef) error {
	switch st := e.state.(type) {
	case *initState:
		return st.defineNativeFont(e.c, def, e.opts.Loader)
	case *emitState:
		e.log.Debug("Ignoring font definition after initialization", zap.String("name", def.Name), zap.Int32("id", def.ID))
	default:
		invalidState(st)
	}
	return nil
}

// Finished flushes content left after the last emit into one more file.
func (e *Engine) Finished() error {
	if st, ok := e.state.(*emitState); ok && st.content.Len() > 0 {
		return st.finishFile(e.c)
	}
	return nil
}

// EmitAssets materializes provided files, font files and font CSS.
func (e *Engine) EmitAssets() error {
	return e.assets.Emit(e.fonts(), e.c)
}

// SerializeAssets returns manifest of assets without writing them.
func (e *Engine) SerializeAssets() assets.Manifest {
	return e.assets.IntoSerialize(e.fonts())
}
