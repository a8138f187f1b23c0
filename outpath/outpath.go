// Package outpath maps document supplied relative paths into the output
// tree.
package outpath

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrIllegalPath is returned for paths escaping the output tree.
var ErrIllegalPath = errors.New("illegal output path")

// Resolve splits dest on '/' and appends every non-empty segment to base.
// Number of appended segments is returned as levels. Rooted dest and any
// ".." or rooted segment are rejected.
func Resolve(base, dest string) (path string, levels int, err error) {
	if strings.HasPrefix(dest, "/") {
		return "", 0, fmt.Errorf("%w: '%s' is rooted", ErrIllegalPath, dest)
	}
	path = base
	for piece := range strings.SplitSeq(dest, "/") {
		switch {
		case piece == "":
			continue
		case piece == "..":
			return "", 0, fmt.Errorf("%w: '%s' contains '..'", ErrIllegalPath, dest)
		case rooted(piece):
			return "", 0, fmt.Errorf("%w: '%s' contains absolute component", ErrIllegalPath, dest)
		}
		path = filepath.Join(path, piece)
		levels++
	}
	return path, levels, nil
}

// RelTop returns prefix leading from a file levels deep back to output root.
func RelTop(levels int) string {
	if levels < 2 {
		return ""
	}
	return strings.Repeat("../", levels-1)
}

func rooted(piece string) bool {
	return filepath.IsAbs(piece) || filepath.VolumeName(piece) != "" || strings.HasPrefix(piece, `\`)
}
