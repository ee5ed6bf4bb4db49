package dexload

import (
	"io"
	"path/filepath"
	"strings"
	"sync"
)

type (
	//entry is one classpath element, opened lazily at first class load.
	entry interface {
		path() string
		classes() (*Dex, error)
		resource(name string) (io.ReadCloser, error)
	}
	//dexEntry is a raw class container. It never carries resources.
	dexEntry struct {
		file string
		once sync.Once
		dex  *Dex
		err  error
	}
	//jarEntry is an archive wrapping a class container plus resources. Its
	//class table is read through the optimized artifact inside dir.
	jarEntry struct {
		file string
		dir  string
		once sync.Once
		dex  *Dex
		err  error
	}
)

func (e *dexEntry) path() string { return e.file }

func (e *dexEntry) classes() (*Dex, error) {
	e.once.Do(func() {
		e.dex, e.err = ReadDexFile(e.file)
	})
	return e.dex, e.err
}

func (e *dexEntry) resource(string) (io.ReadCloser, error) {
	return nil, ErrResourceNotFound
}

func (e *jarEntry) path() string { return e.file }

func (e *jarEntry) classes() (*Dex, error) {
	e.once.Do(func() {
		var odex string
		if odex, e.err = Optimize(e.file, e.dir); e.err != nil {
			return
		}
		e.dex, e.err = ReadDexFile(odex)
	})
	return e.dex, e.err
}

func (e *jarEntry) resource(name string) (io.ReadCloser, error) {
	return jarResource(e.file, name)
}

// parseClasspath split a platform path list into classpath entries. Elements
// ending in .dex or .odex are raw containers, anything else is treated as a
// jar archive. Paths are recorded, not opened, so a broken element surfaces
// at first load rather than at construction.
func parseClasspath(classpath, optimizedDir string) (v []entry, err error) {
	for _, p := range filepath.SplitList(classpath) {
		if p == "" {
			continue
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".dex", ".odex":
			v = append(v, &dexEntry{file: p})
		default:
			v = append(v, &jarEntry{file: p, dir: optimizedDir})
		}
	}
	if len(v) == 0 {
		return nil, ErrEmptyClasspath
	}
	return
}
