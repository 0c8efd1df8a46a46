package resolver

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
)

// ClassPool is a Resolver backed by a single archive (.jar/.zip) or
// directory tree of .class files — the "class pool" named in the
// GLOSSARY. The storage is indexed lazily and once (guarded by a mutex so
// a ClassPool itself is safe to share across jobs, even though a single
// job's own usage is single-threaded); every Find reads and parses the
// class again, and memoization is left to Cache.
type ClassPool struct {
	path string

	mu      sync.Mutex
	entries map[string]string // internal class name -> archive member / file path
	names   []string          // stable enumeration order
	loaded  bool

	closed bool
}

// NewClassPool builds a ClassPool over a directory or a .jar/.zip
// archive at path. The backing storage is not opened until the first
// lookup.
func NewClassPool(path string) *ClassPool {
	return &ClassPool{path: path}
}

func (p *ClassPool) ensureIndexed() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return nil
	}

	info, err := os.Stat(p.path)
	if err != nil {
		return fmt.Errorf("failed to stat class pool %s: %w", p.path, err)
	}

	entries := make(map[string]string)
	var names []string

	if info.IsDir() {
		err = filepath.WalkDir(p.path, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".class") {
				return nil
			}
			rel, err := filepath.Rel(p.path, path)
			if err != nil {
				return err
			}
			name := strings.TrimSuffix(filepath.ToSlash(rel), ".class")
			if _, exists := entries[name]; !exists {
				entries[name] = path
				names = append(names, name)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to index directory %s: %w", p.path, err)
		}
	} else {
		zr, err := zip.OpenReader(p.path)
		if err != nil {
			return fmt.Errorf("failed to open archive %s: %w", p.path, err)
		}
		defer zr.Close()
		for _, f := range zr.File {
			if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".class") {
				continue
			}
			name := strings.TrimSuffix(f.Name, ".class")
			if _, exists := entries[name]; !exists {
				entries[name] = f.Name
				names = append(names, name)
			}
		}
	}

	p.entries = entries
	p.names = names
	p.loaded = true
	return nil
}

func (p *ClassPool) Contains(name string) bool {
	if err := p.ensureIndexed(); err != nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.entries[name]
	return ok
}

func (p *ClassPool) Find(name string) Resolution {
	if err := p.ensureIndexed(); err != nil {
		return ResolutionFailedToRead(err.Error())
	}

	p.mu.Lock()
	member, ok := p.entries[name]
	p.mu.Unlock()
	if !ok {
		return ResolutionNotFound()
	}

	data, err := p.readMember(member)
	if err != nil {
		return ResolutionFailedToRead(err.Error())
	}

	class, err := classfile.Parse(bytes.NewReader(data))
	if err != nil {
		if _, ok := err.(*classfile.InvalidClassFileError); ok {
			return ResolutionInvalid(err.Error())
		}
		return ResolutionFailedToRead(err.Error())
	}
	return ResolutionFound(class)
}

func (p *ClassPool) readMember(member string) ([]byte, error) {
	info, err := os.Stat(p.path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return os.ReadFile(member)
	}

	zr, err := zip.OpenReader(p.path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != member {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("member %s disappeared from archive %s", member, p.path)
}

func (p *ClassPool) AllClassNames() []string {
	if err := p.ensureIndexed(); err != nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

func (p *ClassPool) ClassPath() []string { return []string{p.path} }

func (p *ClassPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
