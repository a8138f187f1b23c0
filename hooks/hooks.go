// Package hooks defines the two capabilities conversion requires from its
// host: resolving named inputs and receiving diagnostics.
package hooks

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrNotFound is returned by InputResolver when input does not exist.
var ErrNotFound = errors.New("input not found")

// Input is an opened named resource.
type Input interface {
	io.Reader
	// Name returns resolved name of the input, stable for the same resource.
	Name() string
	// Close releases input and returns digest of the data read, nil if input
	// was not read to the end.
	Close() ([]byte, error)
}

type InputResolver interface {
	Open(name string) (Input, error)
}

// Sink receives diagnostics and dependency tracking events.
type Sink interface {
	Warn(msg string, fields ...zap.Field)
	InputClosed(name string, digest []byte)
}

// Common bundles capabilities passed into every engine operation.
type Common struct {
	Resolver InputResolver
	Sink     Sink
	// OutBase is the root of the output tree.
	OutBase string
}

// Close closes input and reports it to the sink.
func (c *Common) Close(in Input) error {
	digest, err := in.Close()
	if err != nil {
		return fmt.Errorf("unable to close input '%s': %w", in.Name(), err)
	}
	c.Sink.InputClosed(in.Name(), digest)
	return nil
}

// ReadAll reads required input completely.
func (c *Common) ReadAll(name string) (data []byte, err error) {
	in, err := c.Resolver.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unable to open input '%s': %w", name, err)
	}
	if data, err = io.ReadAll(in); err != nil {
		err = fmt.Errorf("unable to read input '%s': %w", name, err)
	}
	return data, multierr.Append(err, c.Close(in))
}

// CopyFile copies required input into dest creating parent directories as
// necessary.
func (c *Common) CopyFile(name, dest string) (err error) {
	in, err := c.Resolver.Open(name)
	if err != nil {
		return fmt.Errorf("unable to open input '%s': %w", name, err)
	}
	defer func() {
		err = multierr.Append(err, c.Close(in))
	}()
	return WriteFile(dest, in)
}

// WriteFile writes content of r to path creating parent directories as
// necessary.
func WriteFile(path string, r io.Reader) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create directory for '%s': %w", path, err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create '%s': %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()
	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("unable to write '%s': %w", path, err)
	}
	return nil
}
