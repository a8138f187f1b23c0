// Package debug renders internal state as indented text for debug reports.
package debug

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes label with quoted value, empty value is left as is.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Map writes label followed by map entries in natural key order one level
// deeper.
func (tw TreeWriter) Map(depth int, label string, m map[string]string) {
	tw.Line(depth, "%s (%d)", label, len(m))
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	for _, k := range keys {
		tw.TextBlock(depth+1, k, m[k])
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
