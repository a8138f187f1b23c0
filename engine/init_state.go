package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"spxh/hooks"
	"spxh/special"
	"spxh/xdv"
)

type namedTemplate struct {
	name string
	text string
}

// initState collects templates, variables and fonts until first content
// arrives.
type initState struct {
	templates        []namedTemplate
	nextTemplatePath string
	nextOutputPath   string
	variables        map[string]string
	fonts            *fontTable
}

func newInitState() *initState {
	return &initState{
		variables: make(map[string]string),
		fonts:     newFontTable(),
	}
}

func (s *initState) handleSpecial(c *hooks.Common, sp special.Special) error {
	switch sp.Kind {
	case special.AddTemplate:
		data, err := c.ReadAll(sp.Arg)
		if err != nil {
			return fmt.Errorf("unable to load template: %w", err)
		}
		s.templates = append(s.templates, namedTemplate{name: sp.Arg, text: string(data)})

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
		s.variables[name] = value

	case special.ProvideFile:
		c.Sink.Warn("Ignoring special, it came too soon", zap.String("special", sp.Raw))

	case special.ContentFinished:
		// nothing to finish yet

	default:
		if sp.Content() {
			// markup before the first text has nothing to attach to
			return nil
		}
		if sp.Ours() {
			c.Sink.Warn("Ignoring unrecognized special", zap.String("special", sp.Raw))
		}
	}
	return nil
}

// defineNativeFont registers font id. Font files are looked up by name and
// then by name with ".otf" extension; each resolved file and face is loaded
// once and copied into output directory under its base name.
func (s *initState) defineNativeFont(c *hooks.Common, def xdv.FontDef, load FontLoader) (err error) {
	if _, ok := s.fonts.infos[def.ID]; ok {
		return nil
	}

	texpath := def.Name
	in, err := c.Resolver.Open(texpath)
	if errors.Is(err, hooks.ErrNotFound) {
		texpath = def.Name + ".otf"
		in, err = c.Resolver.Open(texpath)
	}
	if err != nil {
		return fmt.Errorf("unable to open font '%s': %w", def.Name, err)
	}
	basename := path.Base(filepath.ToSlash(texpath))

	key := fdKey{name: in.Name(), face: def.FaceIndex}
	fdk, known := s.fonts.keys[key]
	if known {
		if err := c.Close(in); err != nil {
			return err
		}
	} else {
		data, err := io.ReadAll(in)
		err = multierr.Append(err, c.Close(in))
		if err != nil {
			return fmt.Errorf("unable to read font '%s': %w", texpath, err)
		}

		if !s.fonts.copied[key.name] {
			if err := hooks.WriteFile(filepath.Join(c.OutBase, basename), bytes.NewReader(data)); err != nil {
				return err
			}
			s.fonts.copied[key.name] = true
		}

		fd, err := load(basename, data, def.FaceIndex)
		if err != nil {
			return err
		}
		fdk = len(s.fonts.data)
		s.fonts.data = append(s.fonts.data, fd)
		s.fonts.sources = append(s.fonts.sources, texpath)
		s.fonts.keys[key] = fdk
	}

	// NOTE: every font definition resets main body font, this works for
	// documents which define text font last in preamble
	s.fonts.mainBodySize = def.Size
	s.fonts.mainBodyKey = fdk

	s.fonts.infos[def.ID] = &FontInfo{
		Role:      MainBody,
		RelURL:    url.PathEscape(basename),
		FDKey:     fdk,
		Size:      def.Size,
		FaceIndex: def.FaceIndex,
		Color:     def.Color,
		Extend:    def.Extend,
		Slant:     def.Slant,
		Embolden:  def.Embolden,
	}
	return nil
}

// finish consumes initialization state.
func (s *initState) finish(opts *Options) (*emitState, error) {
	for _, t := range s.templates {
		if err := opts.Templates.AddTemplate(t.name, t.text); err != nil {
			return nil, err
		}
	}

	context := make(map[string]string, len(s.variables)+4)
	for k, v := range s.variables {
		context[k] = v
	}

	var rems float32
	if s.fonts.mainBodySize > 0 {
		rems = 1 / float32(s.fonts.mainBodySize)
	}

	outputPath := s.nextOutputPath
	if outputPath == "" {
		outputPath = opts.DefaultOutputPath
	}

	es := &emitState{
		opts:             opts,
		fonts:            s.fonts,
		remsPerTex:       rems,
		nextTemplatePath: s.nextTemplatePath,
		nextOutputPath:   outputPath,
		context:          context,
	}
	s.fonts, s.templates, s.variables = nil, nil, nil
	return es, nil
}
