package dexload

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZenLiuCN/fn"
)

// DexEntryName is the archive entry holding the class container of a jar.
const DexEntryName = "classes.dex"

// WriteJar serialize a jar archive bundling the class container and the
// provided resources, keyed by slash separated paths.
func WriteJar(out io.Writer, d *Dex, resources map[string][]byte) (err error) {
	zw := zip.NewWriter(out)
	var w io.Writer
	if w, err = zw.Create(DexEntryName); err != nil {
		return
	}
	if err = WriteDex(w, d); err != nil {
		return
	}
	names := fn.MapKeys(resources)
	sort.Strings(names)
	for _, n := range names {
		if w, err = zw.Create(n); err != nil {
			return
		}
		if _, err = w.Write(resources[n]); err != nil {
			return
		}
	}
	return zw.Close()
}

// WriteJarFile serialize a jar archive to a file, truncating any previous one.
func WriteJarFile(path string, d *Dex, resources map[string][]byte) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return
	}
	defer fn.IgnoreClose(f)
	return WriteJar(f, d, resources)
}

// Optimize extract the embedded class container of a jar into dir as
// <base>.odex, reusing a previous extraction while it is not older than the
// jar. Returns the optimized artifact path.
func Optimize(jarPath, dir string) (odex string, err error) {
	base := strings.TrimSuffix(filepath.Base(jarPath), filepath.Ext(jarPath))
	odex = filepath.Join(dir, base+".odex")
	var ji os.FileInfo
	if ji, err = os.Stat(jarPath); err != nil {
		return
	}
	if oi, e := os.Stat(odex); e == nil && oi.Size() > 0 && !oi.ModTime().Before(ji.ModTime()) {
		return
	}
	var zr *zip.ReadCloser
	if zr, err = zip.OpenReader(jarPath); err != nil {
		return
	}
	defer fn.IgnoreClose(zr)
	for _, f := range zr.File {
		if f.Name != DexEntryName {
			continue
		}
		var in io.ReadCloser
		if in, err = f.Open(); err != nil {
			return
		}
		defer fn.IgnoreClose(in)
		if err = os.MkdirAll(dir, os.ModePerm); err != nil {
			return
		}
		var out *os.File
		if out, err = os.Create(odex); err != nil {
			return
		}
		defer fn.IgnoreClose(out)
		_, err = io.Copy(out, in)
		return
	}
	return "", fmt.Errorf("%w: jar %s has no %s", ErrBadContainer, jarPath, DexEntryName)
}

type jarStream struct {
	io.ReadCloser
	owner *zip.ReadCloser
}

func (j *jarStream) Close() error {
	err := j.ReadCloser.Close()
	if e := j.owner.Close(); err == nil {
		err = e
	}
	return err
}

// jarResource open a named resource stream inside a jar. The returned stream
// owns the underlying archive handle.
func jarResource(jarPath, name string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if f.Name != name || f.Name == DexEntryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			_ = zr.Close()
			return nil, err
		}
		return &jarStream{ReadCloser: rc, owner: zr}, nil
	}
	_ = zr.Close()
	return nil, ErrResourceNotFound
}

// jarResources list the resource names of a jar, the class container entry
// excluded.
func jarResources(jarPath string) (v []string, err error) {
	var zr *zip.ReadCloser
	if zr, err = zip.OpenReader(jarPath); err != nil {
		return
	}
	defer fn.IgnoreClose(zr)
	for _, f := range zr.File {
		if f.Name == DexEntryName || strings.HasSuffix(f.Name, "/") {
			continue
		}
		v = append(v, f.Name)
	}
	sort.Strings(v)
	return
}
