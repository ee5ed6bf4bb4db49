package dexload

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

type (
	//ClassLoader resolves class names to loaded classes and resource names to
	//byte streams, delegating unresolved lookups to a parent loader first.
	//
	//Use Steps:
	//
	//	1. NewDexLoader with a classpath of raw dex containers or jar archives.
	//	2. [ClassLoader.LoadClass] or [ClassLoader.Resource] as needed.
	//
	//Note:
	//
	//	1. Construction records the classpath without opening it, a broken
	//	   element surfaces at first load.
	//	2. A loader is stateless from the caller's perspective, every call is
	//	   independent and there is no teardown operation.
	ClassLoader interface {
		LoadClass(name string) (*Class, error)       //resolve a class by its fully qualified name, throws ErrClassNotFound
		Resource(name string) (io.ReadCloser, error) //open a resource stream by path name, throws ErrResourceNotFound
		Parent() ClassLoader                         //the delegation parent, nil only for the boot loader
	}
	//DexLoader loads classes and resources from an ordered classpath of raw
	//dex containers and jar archives, writing optimized artifacts of jar
	//class tables into its optimized directory.
	DexLoader struct {
		id      uuid.UUID
		entries []entry
		odir    string
		lib     string
		parent  ClassLoader
		sym     Symbols
		log     zerolog.Logger
		mu      sync.Mutex
		classes map[string]*Class
	}
	bootLoader struct {
		mu      sync.Mutex
		classes map[string]*Class
	}
)

// NewDexLoader create a loader over classpath, one or more container paths
// joined by the platform path list separator. optimizedDir receives extracted
// jar class tables, librarySearchPath is recorded for native lookup, a nil
// parent delegates to the shared BootLoader. An optional debug parameter will
// enable debug logging inside the loader.
func NewDexLoader(classpath, optimizedDir, librarySearchPath string, parent ClassLoader, debug ...bool) (*DexLoader, error) {
	return NewDexLoaderWith(NewSymbols(), classpath, optimizedDir, librarySearchPath, parent, debug...)
}

// NewDexLoaderWith create a loader dispatching into the provided Symbols
// table, so several loaders may share one native table.
func NewDexLoaderWith(sym Symbols, classpath, optimizedDir, librarySearchPath string, parent ClassLoader, debug ...bool) (l *DexLoader, err error) {
	l = new(DexLoader)
	if l.entries, err = parseClasspath(classpath, optimizedDir); err != nil {
		return nil, err
	}
	l.id = uuid.New()
	l.odir = optimizedDir
	l.lib = librarySearchPath
	l.parent = parent
	if l.parent == nil {
		l.parent = BootLoader()
	}
	l.sym = sym
	l.classes = make(map[string]*Class)
	l.log = zerolog.Nop()
	if len(debug) > 0 && debug[0] {
		l.log = zlog.With().Str("loader", l.id.String()).Logger()
		l.log.Debug().Str("classpath", classpath).Str("odir", optimizedDir).Msg("created loader")
	}
	return
}

// LoadClass resolve a class, parent first, then classpath entries in
// configuration order. The first defining entry wins.
func (l *DexLoader) LoadClass(name string) (*Class, error) {
	l.mu.Lock()
	if c, ok := l.classes[name]; ok {
		l.mu.Unlock()
		return c, nil
	}
	l.mu.Unlock()
	if c, err := l.parent.LoadClass(name); err == nil {
		return c, nil
	} else if !errors.Is(err, ErrClassNotFound) {
		return nil, err
	}
	for _, e := range l.entries {
		d, err := e.classes()
		if err != nil {
			return nil, fmt.Errorf("classpath entry %s: %w", e.path(), err)
		}
		def, ok := d.Class(name)
		if !ok {
			continue
		}
		c := defineClass(def, l, l.sym)
		l.log.Debug().Str("class", name).Str("entry", e.path()).Msg("defined class")
		l.mu.Lock()
		if prev, ok := l.classes[name]; ok {
			c = prev
		} else {
			l.classes[name] = c
		}
		l.mu.Unlock()
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
}

// Resource open a resource stream, parent first, then archive entries in
// configuration order. Raw dex entries never yield resources.
func (l *DexLoader) Resource(name string) (io.ReadCloser, error) {
	if rc, err := l.parent.Resource(name); err == nil {
		return rc, nil
	} else if !errors.Is(err, ErrResourceNotFound) {
		return nil, err
	}
	for _, e := range l.entries {
		rc, err := e.resource(name)
		if err == nil {
			l.log.Debug().Str("resource", name).Str("entry", e.path()).Msg("found resource")
			return rc, nil
		}
		if !errors.Is(err, ErrResourceNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
}

// Parent the delegation parent of this loader.
func (l *DexLoader) Parent() ClassLoader { return l.parent }

// Classpath dump the configured entry paths in configuration order.
func (l *DexLoader) Classpath() (v []string) {
	for _, e := range l.entries {
		v = append(v, e.path())
	}
	return
}

// OptimizedDir the optimized artifact directory of this loader.
func (l *DexLoader) OptimizedDir() string { return l.odir }

// LibrarySearchPath the recorded native library search path.
func (l *DexLoader) LibrarySearchPath() string { return l.lib }

// GetSymbols fetch the internal Symbols table this loader dispatches into.
func (l *DexLoader) GetSymbols() Symbols { return l.sym }

// MissingSymbols dump the method symbols of every classpath entry that have
// no registered invocable in the loader's Symbols table.
func (l *DexLoader) MissingSymbols() (v []string, err error) {
	seen := make(map[string]bool)
	for _, e := range l.entries {
		var d *Dex
		if d, err = e.classes(); err != nil {
			return nil, fmt.Errorf("classpath entry %s: %w", e.path(), err)
		}
		for _, s := range d.Symbols() {
			if seen[s] {
				continue
			}
			seen[s] = true
			if _, ok := l.sym.Fetch(s); !ok {
				v = append(v, s)
			}
		}
	}
	return
}

var bootstrap = &bootLoader{classes: make(map[string]*Class)}

// BootLoader the shared root loader backed by globally registered boot
// classes, see RegisterBootClass. It carries no resources and has no parent.
func BootLoader() ClassLoader { return bootstrap }

func (b *bootLoader) LoadClass(name string) (*Class, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.classes[name]; ok {
		return c, nil
	}
	def, ok := bootClasses[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	c := defineClass(def, b, boot)
	b.classes[name] = c
	return c, nil
}

func (b *bootLoader) Resource(name string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
}

func (b *bootLoader) Parent() ClassLoader { return nil }
