package dexload

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZenLiuCN/fn"
)

//go:embed testdata
var fixtureFS embed.FS

const (
	jarName  = "loading-test.jar"
	dexName  = "loading-test.dex"
	jar2Name = "loading-test2.jar"
	dex2Name = "loading-test2.dex"
)

var (
	tmpDir   string
	jarFile  string
	dexFile  string
	jar2File string
	dex2File string
)

// Fixtures are provisioned once into a shared scratch directory under fixed
// names, the directory doubles as the optimized artifact dir.
func TestMain(m *testing.M) {
	tmpDir = filepath.Join(os.TempDir(), "dexload-loading-test")
	fn.Panic(os.MkdirAll(tmpDir, os.ModePerm))
	for _, n := range []string{"loading-test.hcl", "loading-test2.hcl", "Resource1.txt", "Resource2.txt"} {
		fn.Panic(CopyResource(fixtureFS, "testdata/"+n, filepath.Join(tmpDir, n)))
	}
	jarFile = filepath.Join(tmpDir, jarName)
	dexFile = filepath.Join(tmpDir, dexName)
	jar2File = filepath.Join(tmpDir, jar2Name)
	dex2File = filepath.Join(tmpDir, dex2Name)
	manifest := filepath.Join(tmpDir, "loading-test.hcl")
	manifest2 := filepath.Join(tmpDir, "loading-test2.hcl")
	fn.Panic(CompileManifest(manifest, dexFile, false))
	fn.Panic(CompileManifest(manifest, jarFile, true))
	fn.Panic(CompileManifest(manifest2, dex2File, false))
	fn.Panic(CompileManifest(manifest2, jar2File, true))
	registerFixtureSymbols()
	os.Exit(m.Run())
}

func readAll(rc io.ReadCloser, err error) (string, error) {
	if err != nil {
		return "", err
	}
	defer fn.IgnoreClose(rc)
	b, err := io.ReadAll(rc)
	return string(b), err
}

func expectResource(c *Call, name, expected string) (any, error) {
	s, err := readAll(c.Class.Resource(name))
	if err != nil {
		return nil, err
	}
	if s != expected {
		return nil, fmt.Errorf("resource %s: got %q want %q", name, s, expected)
	}
	return nil, nil
}

// The native implementations the fixture containers bind to. The fixture
// methods of test.TestMethods assert against their own loader context and
// fail by returning an error, mirroring test code that lives inside the
// loaded containers.
func registerFixtureSymbols() {
	Register("test.Test1.test", func(c *Call) (any, error) {
		return "blort", nil
	})
	Register("test.Target.staticMethod", func(c *Call) (any, error) {
		return "zorch", nil
	})
	Register("test.Target.instanceMethod", func(c *Call) (any, error) {
		return "fizmo", nil
	})
	Register("test2.Target2.frotz", func(c *Call) (any, error) {
		return "frotz", nil
	})
	Register("test.TestMethods.test_callStaticMethod", func(c *Call) (any, error) {
		v, err := As[string](LoadAndCallStatic(c.Loader, "test.Target", "staticMethod"))
		if err != nil {
			return nil, err
		}
		if v != "zorch" {
			return nil, fmt.Errorf("static method: got %q want %q", v, "zorch")
		}
		return nil, nil
	})
	Register("test.TestMethods.test_getStaticVariable", func(c *Call) (any, error) {
		cls, err := c.Loader.LoadClass("test.Target")
		if err != nil {
			return nil, err
		}
		v, err := cls.Static("staticVariable")
		if err != nil {
			return nil, err
		}
		if v != "barghl" {
			return nil, fmt.Errorf("static variable: got %q want %q", v, "barghl")
		}
		return nil, nil
	})
	Register("test.TestMethods.test_callInstanceMethod", func(c *Call) (any, error) {
		cls, err := c.Loader.LoadClass("test.Target")
		if err != nil {
			return nil, err
		}
		v, err := As[string](cls.New().Call("instanceMethod"))
		if err != nil {
			return nil, err
		}
		if v != "fizmo" {
			return nil, fmt.Errorf("instance method: got %q want %q", v, "fizmo")
		}
		return nil, nil
	})
	Register("test.TestMethods.test_getInstanceVariable", func(c *Call) (any, error) {
		cls, err := c.Loader.LoadClass("test.Target")
		if err != nil {
			return nil, err
		}
		v, err := cls.New().Get("instanceVariable")
		if err != nil {
			return nil, err
		}
		if v != "fnord" {
			return nil, fmt.Errorf("instance variable: got %q want %q", v, "fnord")
		}
		return nil, nil
	})
	Register("test.TestMethods.test_getResourceAsStream", func(c *Call) (any, error) {
		return expectResource(c, "test/Resource1.txt", "Muffins are tasty!\n")
	})
	Register("test.TestMethods.test_diff_getResourceAsStream", func(c *Call) (any, error) {
		return expectResource(c, "test2/Resource2.txt", "Who doesn't like a good biscuit?\n")
	})
}
