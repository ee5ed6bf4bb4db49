package dexload

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZenLiuCN/fn"
)

// CopyFile from src to dest with optional src file info
func CopyFile(src string, dest string, si fs.FileInfo) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(sf)
	df, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(df)
	_, err = io.Copy(df, sf)
	if err == nil {
		if si == nil {
			si, err = os.Stat(src)
			if err != nil {
				return
			}
		}
		err = os.Chmod(dest, si.Mode())
	}
	return
}

// CopyDir from src to dest with optional src file info
func CopyDir(src string, dest string, si fs.FileInfo) (err error) {
	if si == nil {
		si, err = os.Stat(src)
		if err != nil {
			return err
		}
	}
	err = os.MkdirAll(dest, si.Mode())
	if err != nil {
		return err
	}
	var sp string
	return filepath.Walk(src, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == src {
			return nil
		}
		sp, err = filepath.Rel(src, filepath.Dir(path))
		if err != nil {
			return err
		}
		dp := filepath.Join(dest, sp, info.Name())
		if info.IsDir() {
			err = CopyDir(path, dp, info)
		} else {
			err = CopyFile(path, dp, info)
		}
		return err
	})
}

// CopyResource copy the full byte content of a named resource inside fsys to
// the destination path, creating parent directories as needed. Used to
// provision packaged fixtures into a scratch directory.
func CopyResource(fsys fs.FS, name, destination string) (err error) {
	var in fs.File
	if in, err = fsys.Open(name); err != nil {
		return
	}
	defer fn.IgnoreClose(in)
	if err = os.MkdirAll(filepath.Dir(destination), os.ModePerm); err != nil {
		return
	}
	var out *os.File
	if out, err = os.Create(destination); err != nil {
		return
	}
	defer fn.IgnoreClose(out)
	_, err = io.Copy(out, in)
	return
}

type (
	// ContainerInfo contains the inventory of one container file.
	ContainerInfo struct {
		File      string
		Classes   []string
		Resources []string
	}
)

func (i ContainerInfo) String() string {
	s := strings.Builder{}
	for _, c := range i.Classes {
		s.WriteString("class\t" + c + "\n")
	}
	for _, r := range i.Resources {
		s.WriteString("resource\t" + r + "\n")
	}
	return s.String()
}

// Inspect display classes and resources inside a container file, raw dex or
// jar archive by extension.
func Inspect(file string) (i *ContainerInfo, err error) {
	i = &ContainerInfo{File: file}
	var d *Dex
	switch strings.ToLower(filepath.Ext(file)) {
	case ".dex", ".odex":
		if d, err = ReadDexFile(file); err != nil {
			return nil, err
		}
	default:
		tmp, e := os.MkdirTemp("", "dexload-inspect-*")
		if e != nil {
			return nil, e
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		var odex string
		if odex, err = Optimize(file, tmp); err != nil {
			return nil, err
		}
		if d, err = ReadDexFile(odex); err != nil {
			return nil, err
		}
		if i.Resources, err = jarResources(file); err != nil {
			return nil, err
		}
	}
	i.Classes = d.ClassNames()
	return
}
