// Package css produces stylesheet fragments for generated fonts.
package css

import (
	"fmt"
	"io"
	"strings"
)

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
func cssEscapeDoubleQuoted(s string) string {
	if !strings.ContainsAny(s, `"\`+"\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\a `)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FontFace represents an @font-face declaration.
type FontFace struct {
	Family string // font-family value
	URL    string // relative url of the font file
	Format string // format() hint, omitted when empty
	Style  string // font-style: normal, italic
	Weight string // font-weight: normal, bold, 400, 700
}

// Src returns value of src property.
func (ff *FontFace) Src() string {
	src := fmt.Sprintf(`url("%s")`, cssEscapeDoubleQuoted(ff.URL))
	if ff.Format != "" {
		src += fmt.Sprintf(` format("%s")`, ff.Format)
	}
	return src
}

// WriteTo writes an @font-face block to w.
func (ff *FontFace) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString("@font-face {\n")
	fmt.Fprintf(&b, "  font-family: \"%s\";\n", cssEscapeDoubleQuoted(ff.Family))
	fmt.Fprintf(&b, "  src: %s;\n", ff.Src())
	if ff.Style != "" {
		fmt.Fprintf(&b, "  font-style: %s;\n", ff.Style)
	}
	if ff.Weight != "" {
		fmt.Fprintf(&b, "  font-weight: %s;\n", ff.Weight)
	}
	b.WriteString("}\n")

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
