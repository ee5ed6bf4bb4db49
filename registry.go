package dexload

import (
	"maps"

	"github.com/ZenLiuCN/fn"
)

type (
	//Invocable is the native implementation bound to a method symbol.
	//Containers carry class structure only, behavior is resolved through a
	//Symbols table at invocation time.
	Invocable func(c *Call) (any, error)
	//Call carries the context of one method invocation.
	Call struct {
		Class  *Class      //defining class
		This   *Object     //receiver, nil for static calls
		Loader ClassLoader //defining loader of Class
		Args   []any
	}
	// Symbols contains resolved native symbols, this interface can not be
	// implement outside this package.
	//
	// If two loaders share the same Symbols instance, their classes dispatch
	// into the same native table.
	Symbols interface {
		Symbols() []string                 //registered symbol names
		Fetch(sym string) (Invocable, bool) //fetch a symbol, false when absent
		MustFetch(sym string) Invocable     //fetch a symbol, throws ErrMissingSymbol
		Put(sym string, fn Invocable)       //register or replace a symbol
	}
	symbols map[string]Invocable
)

var (
	boot        symbols
	bootClasses map[string]*ClassDef
)

func init() {
	boot = make(symbols)
	bootClasses = make(map[string]*ClassDef)
}

// Register bind a native symbol into the global boot table. Symbols tables
// created afterwards by NewSymbols inherit the binding.
func Register(sym string, f Invocable) {
	boot.Put(sym, f)
}

// RegisterBootClass add class definitions resolvable by the shared BootLoader,
// which every loader without an explicit parent delegates to.
func RegisterBootClass(defs ...*ClassDef) {
	for _, d := range defs {
		bootClasses[d.Name] = d
	}
}

// NewSymbols create a Symbols with the global boot symbols.
func NewSymbols() Symbols {
	return symbols(maps.Clone(boot))
}

// Symbols dump symbol names inside Symbols.
func (s symbols) Symbols() []string {
	return fn.MapKeys(s)
}

func (s symbols) Fetch(sym string) (f Invocable, ok bool) {
	f, ok = s[sym]
	return
}

func (s symbols) MustFetch(sym string) Invocable {
	f, ok := s[sym]
	if !ok {
		panic(ErrMissingSymbol)
	}
	return f
}

func (s symbols) Put(sym string, f Invocable) {
	s[sym] = f
}
