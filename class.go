package dexload

import (
	"fmt"
	"io"
)

type (
	//Class is a loaded class handle bound to its defining loader. Behavior
	//dispatches through the Symbols table the loader was constructed with.
	Class struct {
		def    *ClassDef
		loader ClassLoader
		sym    Symbols
		static map[string]string
	}
	//Object is an instance of a loaded Class with its own field values.
	Object struct {
		class  *Class
		fields map[string]string
	}
)

func defineClass(def *ClassDef, loader ClassLoader, sym Symbols) *Class {
	c := &Class{def: def, loader: loader, sym: sym, static: make(map[string]string)}
	for _, f := range def.Fields {
		if f.Static {
			c.static[f.Name] = f.Value
		}
	}
	return c
}

// Name the fully qualified dotted name of the class.
func (c *Class) Name() string { return c.def.Name }

// Super the superclass name, empty when the class has none.
func (c *Class) Super() string { return c.def.Super }

// Loader the defining loader of this class.
func (c *Class) Loader() ClassLoader { return c.loader }

// Definition the raw container definition of this class.
func (c *Class) Definition() *ClassDef { return c.def }

// Static read a static variable value.
func (c *Class) Static(name string) (string, error) {
	f, ok := c.def.Field(name)
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrMissingField, c.def.Name, name)
	}
	if !f.Static {
		return "", fmt.Errorf("%w: field %s.%s", ErrNotStatic, c.def.Name, name)
	}
	return c.static[name], nil
}

// SetStatic write a static variable value.
func (c *Class) SetStatic(name, value string) error {
	f, ok := c.def.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrMissingField, c.def.Name, name)
	}
	if !f.Static {
		return fmt.Errorf("%w: field %s.%s", ErrNotStatic, c.def.Name, name)
	}
	c.static[name] = value
	return nil
}

// New create an instance with the instance fields at their initial values.
func (c *Class) New() *Object {
	o := &Object{class: c, fields: make(map[string]string)}
	for _, f := range c.def.Fields {
		if !f.Static {
			o.fields[f.Name] = f.Value
		}
	}
	return o
}

// CallStatic invoke a named static method through the symbols table.
func (c *Class) CallStatic(method string, args ...any) (any, error) {
	return c.invoke(method, nil, args)
}

// Resource open a named resource through this class's own loader context.
func (c *Class) Resource(name string) (io.ReadCloser, error) {
	return c.loader.Resource(name)
}

func (c *Class) invoke(method string, this *Object, args []any) (any, error) {
	m, ok := c.def.Method(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrMissingMethod, c.def.Name, method)
	}
	if this == nil && !m.Static {
		return nil, fmt.Errorf("%w: method %s.%s", ErrNotStatic, c.def.Name, method)
	}
	f, ok := c.sym.Fetch(m.Symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s bound by %s.%s", ErrMissingSymbol, m.Symbol, c.def.Name, method)
	}
	return f(&Call{Class: c, This: this, Loader: c.loader, Args: args})
}

// Class the defining class of this instance.
func (o *Object) Class() *Class { return o.class }

// Get read an instance variable value.
func (o *Object) Get(name string) (string, error) {
	if _, ok := o.fields[name]; !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrMissingField, o.class.def.Name, name)
	}
	return o.fields[name], nil
}

// Set write an instance variable value.
func (o *Object) Set(name, value string) error {
	if _, ok := o.fields[name]; !ok {
		return fmt.Errorf("%w: %s.%s", ErrMissingField, o.class.def.Name, name)
	}
	o.fields[name] = value
	return nil
}

// Call invoke a named method on this instance.
func (o *Object) Call(method string, args ...any) (any, error) {
	return o.class.invoke(method, o, args)
}

// LoadAndCallStatic load a class by name and call a named static method on it,
// the usual load-then-invoke round trip.
func LoadAndCallStatic(l ClassLoader, class, method string, args ...any) (any, error) {
	c, err := l.LoadClass(class)
	if err != nil {
		return nil, err
	}
	return c.CallStatic(method, args...)
}

// As cast an invocation result to the contract type.
func As[T any](v any, err error) (x T, _ error) {
	if err != nil {
		return x, err
	}
	x, ok := v.(T)
	if !ok {
		return x, fmt.Errorf("unexpected result type %T", v)
	}
	return x, nil
}
