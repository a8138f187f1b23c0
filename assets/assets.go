// Package assets tracks files document wants in the output tree besides its
// HTML pages.
package assets

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"spxh/hooks"
	"spxh/outpath"
	"spxh/special"
)

// FontEnsemble is the set of custom fonts used by the document.
type FontEnsemble interface {
	// Emit materializes font files in the output tree and returns CSS
	// declaring them. Repeated calls return the same CSS.
	Emit(c *hooks.Common) (string, error)
	// Families returns CSS font families with their face files.
	Families() map[string]FontFamily
	// Files returns font files keyed by output path.
	Files() map[string]FontFile
}

type origin struct {
	fontCSS bool
	src     string
}

// Manager maps output paths to origins, last registration wins.
type Manager struct {
	paths map[string]origin
}

func NewManager() *Manager {
	return &Manager{paths: make(map[string]origin)}
}

// Len returns number of registered assets.
func (m *Manager) Len() int {
	return len(m.paths)
}

// TryHandleSpecial registers asset requested by special. It returns false if
// special is not an asset request or is malformed.
func (m *Manager) TryHandleSpecial(s special.Special, c *hooks.Common) bool {
	switch s.Kind {
	case special.ProvideFile:
		src, dest, ok := s.Pair()
		if !ok {
			c.Sink.Warn("Ignoring malformed special", zap.String("special", s.Raw))
			return false
		}
		if !legal(dest, s, c) {
			return false
		}
		m.paths[dest] = origin{src: src}
		return true

	case special.ProvideSpecial:
		kind, dest, ok := s.Pair()
		if !ok {
			c.Sink.Warn("Ignoring malformed special", zap.String("special", s.Raw))
			return false
		}
		if kind != "font-css" {
			c.Sink.Warn("Ignoring unsupported special provide kind", zap.String("kind", kind), zap.String("special", s.Raw))
			return false
		}
		if !legal(dest, s, c) {
			return false
		}
		m.paths[dest] = origin{fontCSS: true}
		return true
	}
	return false
}

// legal reports whether destination stays inside the output tree.
func legal(dest string, s special.Special, c *hooks.Common) bool {
	if err := checkDestination(dest); err != nil {
		c.Sink.Warn("Ignoring asset with illegal destination", zap.String("special", s.Raw), zap.Error(err))
		return false
	}
	return true
}

func checkDestination(dest string) error {
	_, levels, err := outpath.Resolve("", dest)
	if err != nil {
		return err
	}
	if levels == 0 {
		return fmt.Errorf("%w: empty destination '%s'", outpath.ErrIllegalPath, dest)
	}
	return nil
}

// Emit writes all registered assets and font files into output tree.
func (m *Manager) Emit(fonts FontEnsemble, c *hooks.Common) error {
	faces, err := fonts.Emit(c)
	if err != nil {
		return err
	}

	for _, dest := range sortedNatural(slices.Collect(maps.Keys(m.paths))) {
		path, _, err := outpath.Resolve(c.OutBase, dest)
		if err != nil {
			return err
		}
		o := m.paths[dest]
		if !o.fontCSS {
			if err := c.CopyFile(o.src, path); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("unable to create directory for '%s': %w", path, err)
		}
		if err := os.WriteFile(path, []byte(faces), 0644); err != nil {
			return fmt.Errorf("unable to write '%s': %w", path, err)
		}
	}
	return nil
}

// IntoSerialize produces manifest without touching the disk.
func (m *Manager) IntoSerialize(fonts FontEnsemble) Manifest {
	man := Manifest{}
	for path, f := range fonts.Files() {
		man[path] = Origin{Kind: OriginKindFontFile, Font: &f}
	}

	families := fonts.Families()
	for dest, o := range m.paths {
		if !o.fontCSS {
			man[dest] = Origin{Kind: OriginKindCopy, Source: o.src}
			continue
		}
		clone := make(map[string]FontFamily, len(families))
		for name, fam := range families {
			clone[name] = FontFamily{Faces: maps.Clone(fam.Faces)}
		}
		man[dest] = Origin{Kind: OriginKindFontCss, Families: clone}
	}
	return man
}
