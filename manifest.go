package dexload

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

type (
	//Manifest is the source form of a container, authored in HCL and
	//compiled into a dex container or a jar archive by dexc.
	Manifest struct {
		Classes   []*ManifestClass    `hcl:"class,block"`
		Resources []*ManifestResource `hcl:"resource,block"`
	}
	ManifestClass struct {
		Name    string            `hcl:"name,label"`
		Super   string            `hcl:"super,optional"`
		Fields  []*ManifestField  `hcl:"field,block"`
		Methods []*ManifestMethod `hcl:"method,block"`
	}
	ManifestField struct {
		Name   string    `hcl:"name,label"`
		Static bool      `hcl:"static,optional"`
		Value  cty.Value `hcl:"value,optional"`
	}
	ManifestMethod struct {
		Name   string `hcl:"name,label"`
		Static bool   `hcl:"static,optional"`
		Symbol string `hcl:"symbol,optional"` //defaults to <class>.<method>
	}
	//ManifestResource carries its content inline or references a file
	//relative to the manifest. Exactly one of the two must be set.
	ManifestResource struct {
		Name    string  `hcl:"name,label"`
		Content *string `hcl:"content,optional"`
		File    *string `hcl:"file,optional"`
	}
)

// ParseManifest parse a container manifest file.
func ParseManifest(path string) (m *Manifest, err error) {
	p := hclparse.NewParser()
	f, diags := p.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse manifest %s: %w", path, diags)
	}
	m = new(Manifest)
	if diags = gohcl.DecodeBody(f.Body, nil, m); diags.HasErrors() {
		return nil, fmt.Errorf("decode manifest %s: %w", path, diags)
	}
	return
}

// Dex convert the manifest classes into a container. Field values are
// converted to their string form, a value that has no string conversion is an
// error.
func (m *Manifest) Dex() (d *Dex, err error) {
	d = new(Dex)
	for _, c := range m.Classes {
		def := &ClassDef{Name: c.Name, Super: c.Super}
		for _, f := range c.Fields {
			v := ""
			if !f.Value.IsNull() {
				var cv cty.Value
				if cv, err = convert.Convert(f.Value, cty.String); err != nil {
					return nil, fmt.Errorf("field %s.%s: %w", c.Name, f.Name, err)
				}
				v = cv.AsString()
			}
			def.Fields = append(def.Fields, FieldDef{Name: f.Name, Static: f.Static, Value: v})
		}
		for _, x := range c.Methods {
			sym := x.Symbol
			if sym == "" {
				sym = c.Name + "." + x.Name
			}
			def.Methods = append(def.Methods, MethodDef{Name: x.Name, Static: x.Static, Symbol: sym})
		}
		d.Classes = append(d.Classes, def)
	}
	return
}

// ResourceBytes materialize the manifest resources, reading file references
// relative to baseDir.
func (m *Manifest) ResourceBytes(baseDir string) (res map[string][]byte, err error) {
	res = make(map[string][]byte, len(m.Resources))
	for _, r := range m.Resources {
		switch {
		case r.Content != nil && r.File != nil:
			return nil, fmt.Errorf("resource %s: both content and file set", r.Name)
		case r.Content != nil:
			res[r.Name] = []byte(*r.Content)
		case r.File != nil:
			if res[r.Name], err = os.ReadFile(filepath.Join(baseDir, *r.File)); err != nil {
				return nil, fmt.Errorf("resource %s: %w", r.Name, err)
			}
		default:
			return nil, fmt.Errorf("resource %s: neither content nor file set", r.Name)
		}
	}
	return
}

// CompileManifest compile a manifest file into out, a jar archive when asJar
// is set and a raw dex container otherwise. Raw containers carry no
// resources, manifest resources are dropped for them.
func CompileManifest(path, out string, asJar bool) (err error) {
	var m *Manifest
	if m, err = ParseManifest(path); err != nil {
		return
	}
	var d *Dex
	if d, err = m.Dex(); err != nil {
		return
	}
	if !asJar {
		return WriteDexFile(out, d)
	}
	var res map[string][]byte
	if res, err = m.ResourceBytes(filepath.Dir(path)); err != nil {
		return
	}
	return WriteJarFile(out, d, res)
}
