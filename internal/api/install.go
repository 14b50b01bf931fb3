package api

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/cruxd/cruxd/pkg/cruxlib"
	"github.com/cruxd/cruxd/pkg/logger"
)

// Unpack error codes reported in InstallResult.Code.
const (
	unpackErrOpen = iota + 1
	unpackErrArchive
	unpackErrStage
	unpackErrEntry
)

// ZipPipeline is the daemon's install pipeline: it unpacks a fetched
// zip artifact into a staging directory and hands that directory to
// the component's installer. The staging directory is removed after
// the installer returns, success or not.
type ZipPipeline struct {
	fs  afero.Fs
	log logger.Logger
}

func NewZipPipeline(fs afero.Fs, l logger.Logger) *ZipPipeline {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &ZipPipeline{fs: fs, log: l}
}

func (p *ZipPipeline) Install(pkHash []byte, artifactPath, fingerprint string, installer cruxlib.Installer) cruxlib.InstallResult {
	stage, err := afero.TempDir(p.fs, "", "cruxd-stage-")
	if err != nil {
		return cruxlib.InstallResult{Category: cruxlib.ErrorCategoryUnpack, Code: unpackErrStage}
	}
	defer p.fs.RemoveAll(stage)

	if err := p.unpack(artifactPath, stage); err != nil {
		p.log.Warning("pipeline: unpack %s: %v", artifactPath, err)
		return cruxlib.InstallResult{Category: cruxlib.ErrorCategoryUnpack, Code: errCode(err)}
	}
	if fingerprint != "" {
		// Stamp the staged tree so the installed copy carries the
		// exact package identity for the next manifest query.
		fpPath := filepath.Join(stage, "manifest.fingerprint")
		if err := afero.WriteFile(p.fs, fpPath, []byte(fingerprint), 0644); err != nil {
			return cruxlib.InstallResult{Category: cruxlib.ErrorCategoryUnpack, Code: unpackErrStage}
		}
	}
	if err := installer.Install(stage); err != nil {
		p.log.Warning("pipeline: install: %v", err)
		return cruxlib.InstallResult{Category: cruxlib.ErrorCategoryInstall, Code: 1}
	}
	return cruxlib.InstallResult{}
}

type unpackError struct {
	code int
	err  error
}

func (e *unpackError) Error() string { return e.err.Error() }
func (e *unpackError) Unwrap() error { return e.err }

func errCode(err error) int {
	if ue, ok := err.(*unpackError); ok {
		return ue.code
	}
	return unpackErrArchive
}

func (p *ZipPipeline) unpack(artifactPath, dst string) error {
	f, err := p.fs.Open(artifactPath)
	if err != nil {
		return &unpackError{unpackErrOpen, err}
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return &unpackError{unpackErrOpen, err}
	}
	zr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		return &unpackError{unpackErrArchive, err}
	}
	for _, entry := range zr.File {
		if err := p.extract(entry, dst); err != nil {
			return &unpackError{unpackErrEntry, err}
		}
	}
	return nil
}

func (p *ZipPipeline) extract(entry *zip.File, dst string) error {
	name := filepath.FromSlash(entry.Name)
	if strings.Contains(name, "..") || filepath.IsAbs(name) {
		return fmt.Errorf("unsafe archive path %q", entry.Name)
	}
	target := filepath.Join(dst, name)
	if entry.FileInfo().IsDir() {
		return p.fs.MkdirAll(target, 0755)
	}
	if err := p.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	out, err := p.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entry.Mode().Perm()|0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// DirInstaller installs a staged component by replacing the contents
// of its install directory with the staged tree.
type DirInstaller struct {
	fs  afero.Fs
	dir string
}

func NewDirInstaller(fs afero.Fs, dir string) *DirInstaller {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DirInstaller{fs: fs, dir: dir}
}

func (d *DirInstaller) Install(src string) error {
	if d.dir == "" {
		return fmt.Errorf("install: no install directory configured")
	}
	if err := d.fs.RemoveAll(d.dir); err != nil {
		return fmt.Errorf("install: clear %s: %w", d.dir, err)
	}
	if err := d.fs.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("install: %w", err)
	}
	return afero.Walk(d.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(d.dir, rel)
		if info.IsDir() {
			return d.fs.MkdirAll(target, info.Mode().Perm()|0700)
		}
		return d.copyFile(path, target, info.Mode().Perm())
	})
}

func (d *DirInstaller) copyFile(src, dst string, perm os.FileMode) error {
	in, err := d.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := d.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm|0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
