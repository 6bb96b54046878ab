package upload

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// Source is one user-selected file.
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type fileSource struct {
	path string
}

// FileSource reads the file at path when the batch reaches it.
func FileSource(path string) Source {
	return fileSource{path: path}
}

func (s fileSource) Name() string { return filepath.Base(s.path) }

func (s fileSource) Open() (io.ReadCloser, error) { return os.Open(s.path) }

type bytesSource struct {
	name string
	data []byte
}

// BytesSource wraps an in-memory file.
func BytesSource(name string, data []byte) Source {
	return bytesSource{name: name, data: data}
}

func (s bytesSource) Name() string { return s.name }

func (s bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

// FileSources maps paths to sources, keeping order.
func FileSources(paths ...string) []Source {
	out := make([]Source, 0, len(paths))
	for _, p := range paths {
		out = append(out, FileSource(p))
	}
	return out
}
