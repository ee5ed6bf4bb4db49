package pool

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	. "github.com/dexkit/dexload"
)

// Pool keeps loaders keyed by classpath, all dispatching into one shared
// Symbols table and writing optimized artifacts into one directory. Lookup
// order of Require is load order.
type Pool struct {
	Symbols
	OptimizedDir string
	Parent       ClassLoader
	Loaders      map[string]*DexLoader
	Loaded       []*DexLoader
	sync.RWMutex
}

var (
	ErrAlreadyLoad  = errors.New("classpath already loaded")
	ErrNotLoad      = errors.New("classpath not loaded")
	ErrMissingClass = errors.New("class not loaded by any pooled loader")
)

// NewPool create a pool over an optimized artifact directory. A nil parent
// delegates every pooled loader to the shared BootLoader.
func NewPool(optimizedDir string, parent ClassLoader) *Pool {
	return &Pool{
		Symbols:      NewSymbols(),
		OptimizedDir: optimizedDir,
		Parent:       parent,
		Loaders:      make(map[string]*DexLoader),
	}
}

// RegisterSymbol bind a native symbol into the pool's shared table. Classes
// already loaded by pooled loaders see the binding on their next invocation.
func (p *Pool) RegisterSymbol(sym string, f Invocable) {
	p.Lock()
	defer p.Unlock()
	p.Put(sym, f)
}

// Load create a loader for classpath and append it to the lookup order.
func (p *Pool) Load(classpath string) (err error) {
	p.Lock()
	defer p.Unlock()
	if _, ok := p.Loaders[classpath]; ok {
		return ErrAlreadyLoad
	}
	var l *DexLoader
	if l, err = NewDexLoaderWith(p.Symbols, classpath, p.OptimizedDir, "", p.Parent); err != nil {
		return
	}
	p.Loaders[classpath] = l
	p.Loaded = append(p.Loaded, l)
	return
}

// Reload replace the loader of an already loaded classpath, keeping its
// position in the lookup order. Classes defined by the old loader stay alive
// for holders of their handles but are not resolvable anymore.
func (p *Pool) Reload(classpath string) (err error) {
	p.Lock()
	defer p.Unlock()
	old, ok := p.Loaders[classpath]
	if !ok {
		return ErrNotLoad
	}
	i := slices.Index(p.Loaded, old)
	if i < 0 {
		return ErrNotLoad
	}
	var l *DexLoader
	if l, err = NewDexLoaderWith(p.Symbols, classpath, p.OptimizedDir, "", p.Parent); err != nil {
		return
	}
	p.Loaders[classpath] = l
	p.Loaded[i] = l
	return
}

// Unload drop a loaded classpath from the pool.
func (p *Pool) Unload(classpath string) error {
	p.Lock()
	defer p.Unlock()
	l, ok := p.Loaders[classpath]
	if !ok {
		return ErrNotLoad
	}
	delete(p.Loaders, classpath)
	if i := slices.Index(p.Loaded, l); i >= 0 {
		p.Loaded = slices.Delete(p.Loaded, i, i+1)
	}
	return nil
}

// Require resolve a class from the pooled loaders in load order.
func (p *Pool) Require(className string) (*Class, error) {
	p.RLock()
	defer p.RUnlock()
	for _, l := range p.Loaded {
		c, err := l.LoadClass(className)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrClassNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingClass, className)
}
