package hooks

import (
	"bytes"
	"crypto/sha256"
	"fmt"
)

// MemResolver serves inputs from memory and counts accesses, it is handy
// when conversion runs against generated data.
type MemResolver struct {
	Files  map[string][]byte
	Opened map[string]int
	Read   map[string]int
}

func NewMemResolver(files map[string][]byte) *MemResolver {
	return &MemResolver{Files: files, Opened: map[string]int{}, Read: map[string]int{}}
}

func (r *MemResolver) Open(name string) (Input, error) {
	data, ok := r.Files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	r.Opened[name]++
	return &memInput{rd: bytes.NewReader(data), r: r, name: name, data: data}, nil
}

type memInput struct {
	rd   *bytes.Reader
	r    *MemResolver
	name string
	data []byte
	read bool
}

func (in *memInput) Read(p []byte) (int, error) {
	if !in.read {
		in.read = true
		in.r.Read[in.name]++
	}
	return in.rd.Read(p)
}

func (in *memInput) Name() string {
	return in.name
}

func (in *memInput) Close() ([]byte, error) {
	if in.rd.Len() != 0 {
		return nil, nil
	}
	sum := sha256.Sum256(in.data)
	return sum[:], nil
}
