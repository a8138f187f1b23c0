package hooks

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FSResolver looks for inputs in the list of directories.
type FSResolver struct {
	dirs []string
}

func NewFSResolver(dirs ...string) *FSResolver {
	return &FSResolver{dirs: dirs}
}

// Open returns first regular file found. Absolute names are not searched.
func (r *FSResolver) Open(name string) (Input, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		candidates = candidates[:0]
		for _, dir := range r.dirs {
			candidates = append(candidates, filepath.Join(dir, filepath.FromSlash(name)))
		}
	}

	for _, path := range candidates {
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if fi, err := f.Stat(); err != nil || !fi.Mode().IsRegular() {
			f.Close()
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		return &fileInput{f: f, name: path, h: sha256.New()}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

type fileInput struct {
	f    *os.File
	name string
	h    hash.Hash
	eof  bool
}

func (in *fileInput) Read(p []byte) (int, error) {
	n, err := in.f.Read(p)
	in.h.Write(p[:n])
	if err == io.EOF {
		in.eof = true
	}
	return n, err
}

func (in *fileInput) Name() string {
	return in.name
}

func (in *fileInput) Close() ([]byte, error) {
	if err := in.f.Close(); err != nil {
		return nil, err
	}
	if !in.eof {
		return nil, nil
	}
	return in.h.Sum(nil), nil
}
