package dexload

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZenLiuCN/fn"
	"github.com/davecgh/go-spew/spew"
)

func sampleDex() *Dex {
	return &Dex{Classes: []*ClassDef{
		{
			Name:  "test.Roundtrip",
			Super: "boot.Anchor",
			Fields: []FieldDef{
				{Name: "staticVariable", Static: true, Value: "barghl"},
				{Name: "instanceVariable", Value: "fnord"},
			},
			Methods: []MethodDef{
				{Name: "run", Static: true, Symbol: "test.Roundtrip.run"},
				{Name: "poke", Symbol: "test.Roundtrip.poke"},
			},
		},
		{Name: "test.Empty"},
	}}
}

func TestDexRoundtrip(t *testing.T) {
	b := new(bytes.Buffer)
	fn.Panic(WriteDex(b, sampleDex()))
	d, err := ReadDex(b)
	if err != nil {
		t.Fatal(err)
	}
	t.Log(spew.Sdump(d))
	c, ok := d.Class("test.Roundtrip")
	if !ok {
		t.Fatal("test.Roundtrip lost")
	}
	if c.Super != "boot.Anchor" {
		t.Errorf("super = %q", c.Super)
	}
	if m, ok := c.Method("poke"); !ok || m.Static || m.Symbol != "test.Roundtrip.poke" {
		t.Errorf("poke = %+v ok=%v", m, ok)
	}
	if f, ok := c.Field("staticVariable"); !ok || !f.Static || f.Value != "barghl" {
		t.Errorf("staticVariable = %+v ok=%v", f, ok)
	}
	if got := d.ClassNames(); len(got) != 2 || got[0] != "test.Empty" {
		t.Errorf("names = %v", got)
	}
}

func TestDexBadMagic(t *testing.T) {
	b := new(bytes.Buffer)
	fn.Panic(WriteDex(b, sampleDex()))
	raw := b.Bytes()
	raw[0] = 'x'
	if _, err := ReadDex(bytes.NewReader(raw)); !errors.Is(err, ErrBadContainer) {
		t.Fatalf("err = %v", err)
	}
}

func TestDexBadChecksum(t *testing.T) {
	b := new(bytes.Buffer)
	fn.Panic(WriteDex(b, sampleDex()))
	raw := b.Bytes()
	raw[len(raw)-1] ^= 0xFF
	if _, err := ReadDex(bytes.NewReader(raw)); !errors.Is(err, ErrBadChecksum) {
		t.Fatalf("err = %v", err)
	}
}

func TestDexTruncated(t *testing.T) {
	if _, err := ReadDex(bytes.NewReader([]byte("dexl"))); !errors.Is(err, ErrBadContainer) {
		t.Fatalf("err = %v", err)
	}
}

func TestOptimizeReuse(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "reuse.jar")
	fn.Panic(WriteJarFile(jar, sampleDex(), map[string][]byte{"a/b.txt": []byte("b")}))
	odex, err := Optimize(jar, dir)
	if err != nil {
		t.Fatal(err)
	}
	first := fn.Panic1(os.Stat(odex)).ModTime()
	again, err := Optimize(jar, dir)
	if err != nil {
		t.Fatal(err)
	}
	if again != odex {
		t.Errorf("odex path changed: %s", again)
	}
	if !fn.Panic1(os.Stat(odex)).ModTime().Equal(first) {
		t.Error("fresh artifact was rewritten")
	}
	d, err := ReadDexFile(odex)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Class("test.Roundtrip"); !ok {
		t.Error("optimized artifact lost classes")
	}
}

func TestOptimizeNoDexEntry(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "hollow.jar")
	f := fn.Panic1(os.Create(jar))
	zw := zip.NewWriter(f)
	w := fn.Panic1(zw.Create("just/a.txt"))
	fn.Panic1(w.Write([]byte("a")))
	fn.Panic(zw.Close())
	fn.Panic(f.Close())
	if _, err := Optimize(jar, dir); err == nil {
		t.Fatal("expected failure on jar without classes.dex")
	}
}

func TestInspect(t *testing.T) {
	i, err := Inspect(jarFile)
	if err != nil {
		t.Fatal(err)
	}
	t.Log(i.String())
	if len(i.Classes) != 3 || i.Classes[0] != "test.Target" {
		t.Errorf("classes = %v", i.Classes)
	}
	if len(i.Resources) != 1 || i.Resources[0] != "test/Resource1.txt" {
		t.Errorf("resources = %v", i.Resources)
	}
	i, err = Inspect(dex2File)
	if err != nil {
		t.Fatal(err)
	}
	if len(i.Classes) != 1 || i.Classes[0] != "test2.Target2" {
		t.Errorf("classes = %v", i.Classes)
	}
	if i.Resources != nil {
		t.Errorf("resources = %v", i.Resources)
	}
}
