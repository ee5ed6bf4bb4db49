package dexload

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/adler32"
	"io"
	"os"
	"sort"

	"github.com/ZenLiuCN/fn"
)

// container layout: magic, big-endian adler32 of the payload, gob payload.
var magic = [8]byte{'d', 'e', 'x', 'l', '\n', '0', '0', '1'}

type (
	//Dex is a parsed class container. It carries class definitions only,
	//resources live in the enclosing Jar archive if any.
	Dex struct {
		Classes []*ClassDef
	}
	//ClassDef describes one class inside a Dex container.
	ClassDef struct {
		Name    string //fully qualified dotted name
		Super   string //optional superclass name
		Fields  []FieldDef
		Methods []MethodDef
	}
	//FieldDef is a static or instance variable with its initial value.
	FieldDef struct {
		Name   string
		Static bool
		Value  string
	}
	//MethodDef binds a method name to a native symbol inside a Symbols table.
	MethodDef struct {
		Name   string
		Static bool
		Symbol string
	}
)

// Class lookup a class definition by its fully qualified name.
func (d *Dex) Class(name string) (*ClassDef, bool) {
	for _, c := range d.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ClassNames dump the sorted names of all classes inside the container.
func (d *Dex) ClassNames() (v []string) {
	for _, c := range d.Classes {
		v = append(v, c.Name)
	}
	sort.Strings(v)
	return
}

// Symbols dump every method symbol referenced by the container.
func (d *Dex) Symbols() (v []string) {
	for _, c := range d.Classes {
		for _, m := range c.Methods {
			v = append(v, m.Symbol)
		}
	}
	sort.Strings(v)
	return
}

// Method lookup a method definition by name.
func (c *ClassDef) Method(name string) (m MethodDef, ok bool) {
	for _, x := range c.Methods {
		if x.Name == name {
			return x, true
		}
	}
	return
}

// Field lookup a field definition by name.
func (c *ClassDef) Field(name string) (f FieldDef, ok bool) {
	for _, x := range c.Fields {
		if x.Name == name {
			return x, true
		}
	}
	return
}

// WriteDex serialize a container to out.
func WriteDex(out io.Writer, d *Dex) (err error) {
	b := new(bytes.Buffer)
	if err = gob.NewEncoder(b).Encode(d); err != nil {
		return
	}
	if _, err = out.Write(magic[:]); err != nil {
		return
	}
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], adler32.Checksum(b.Bytes()))
	if _, err = out.Write(sum[:]); err != nil {
		return
	}
	_, err = out.Write(b.Bytes())
	return
}

// ReadDex parse a container from in. Fails with ErrBadContainer on a wrong
// magic and ErrBadChecksum when the payload does not match its checksum.
func ReadDex(in io.Reader) (d *Dex, err error) {
	var head [12]byte
	if _, err = io.ReadFull(in, head[:]); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadContainer, err)
	}
	if !bytes.Equal(head[:8], magic[:]) {
		return nil, ErrBadContainer
	}
	var payload []byte
	if payload, err = io.ReadAll(in); err != nil {
		return
	}
	if binary.BigEndian.Uint32(head[8:]) != adler32.Checksum(payload) {
		return nil, ErrBadChecksum
	}
	d = new(Dex)
	if err = gob.NewDecoder(bytes.NewReader(payload)).Decode(d); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadContainer, err)
	}
	return
}

// ReadDexFile parse a container file.
func ReadDexFile(path string) (d *Dex, err error) {
	var f *os.File
	if f, err = os.Open(path); err != nil {
		return
	}
	defer fn.IgnoreClose(f)
	return ReadDex(f)
}

// WriteDexFile serialize a container to a file, truncating any previous one.
func WriteDexFile(path string, d *Dex) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return
	}
	defer fn.IgnoreClose(f)
	return WriteDex(f, d)
}
