package fontfile

import (
	"bytes"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"

	"spxh/css"
	"spxh/hooks"
)

// AlternateName returns file name of alternate font number index.
func (f *Font) AlternateName(index int) string {
	ext := filepath.Ext(f.basename)
	return fmt.Sprintf("%s-vg%d%s", strings.TrimSuffix(f.basename, ext), index, ext)
}

// Emit writes alternate font files into outBase and appends @font-face
// declarations for the font and its alternates to faces. Main font file is
// expected to be in outBase already. Alternate font i is declared as family
// familyPrefix+"vg"+i.
func (f *Font) Emit(outBase, familyPrefix string, faces *strings.Builder) error {
	main := css.FontFace{Family: familyPrefix, URL: f.RelURL(), Format: formatHint(f.data)}
	if _, err := main.WriteTo(faces); err != nil {
		return err
	}

	for i := range f.alternates {
		data, err := f.alternateFont(i)
		if err != nil {
			return fmt.Errorf("unable to build alternate font %d for '%s': %w", i, f.basename, err)
		}
		name := f.AlternateName(i)
		if err := hooks.WriteFile(filepath.Join(outBase, name), bytes.NewReader(data)); err != nil {
			return err
		}
		f.log.Debug("Alternate font written", zap.String("file", name), zap.Int("glyphs", len(f.alternates[i])))

		ff := css.FontFace{
			Family: fmt.Sprintf("%svg%d", familyPrefix, i),
			URL:    f.AlternateURL(i),
			Format: formatHint(data),
		}
		if _, err := ff.WriteTo(faces); err != nil {
			return err
		}
	}
	return nil
}

// AlternateURL is percent encoded relative url of alternate font file.
func (f *Font) AlternateURL(index int) string {
	return url.PathEscape(f.AlternateName(index))
}

// alternateFont returns copy of the font with cmap replaced by mappings of
// alternate font index.
func (f *Font) alternateFont(index int) ([]byte, error) {
	sf, err := sfnt.Read(bytes.NewReader(f.data))
	if err != nil {
		return nil, err
	}

	enc := cmap.Format4{}
	for usv, gid := range f.alternates[index] {
		enc[uint16(usv)] = glyph.ID(gid)
	}
	sf.CMapTable = cmap.Table{
		{PlatformID: 0, EncodingID: 3}: enc.Encode(0),
		{PlatformID: 3, EncodingID: 1}: enc.Encode(0),
	}

	var buf bytes.Buffer
	if _, err := sf.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatHint(data []byte) string {
	switch {
	case filetype.Is(data, "woff2"):
		return "woff2"
	case filetype.Is(data, "woff"):
		return "woff"
	case filetype.Is(data, "otf"):
		return "opentype"
	case filetype.Is(data, "ttf"):
		return "truetype"
	}
	return ""
}
