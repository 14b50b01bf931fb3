package api

import (
	"archive/zip"
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/cruxd/cruxd/pkg/cruxlib"
	"github.com/cruxd/cruxd/pkg/logger"
)

var errAlwaysFails = errors.New("installer refused")

// buildZip writes a zip archive with the given files to fs at path.
func buildZip(t *testing.T, fs afero.Fs, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

// capturingInstaller records the staged directory and its contents.
type capturingInstaller struct {
	fs    afero.Fs
	dir   string
	files map[string]string
	err   error
}

func (c *capturingInstaller) Install(dir string) error {
	if c.err != nil {
		return c.err
	}
	c.dir = dir
	c.files = make(map[string]string)
	fis, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		return err
	}
	for _, fi := range fis {
		if fi.IsDir() {
			continue
		}
		b, err := afero.ReadFile(c.fs, filepath.Join(dir, fi.Name()))
		if err != nil {
			return err
		}
		c.files[fi.Name()] = string(b)
	}
	return nil
}

func TestZipPipelineInstallsStagedTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	buildZip(t, fs, "/artifact.zip", map[string]string{
		"payload.bin": "v2 payload",
		"manifest":    `{"version":"2.0"}`,
	})

	inst := &capturingInstaller{fs: fs}
	p := NewZipPipeline(fs, logger.NewNop())
	res := p.Install(nil, "/artifact.zip", "fp2", inst)
	if res.Category != cruxlib.ErrorCategoryNone {
		t.Fatalf("result = %+v", res)
	}
	if inst.files["payload.bin"] != "v2 payload" {
		t.Errorf("payload = %q", inst.files["payload.bin"])
	}
	if inst.files["manifest.fingerprint"] != "fp2" {
		t.Errorf("fingerprint stamp = %q", inst.files["manifest.fingerprint"])
	}

	// The staging directory is removed after the installer returns.
	if ok, _ := afero.DirExists(fs, inst.dir); ok {
		t.Error("staging directory survived the install")
	}
}

func TestZipPipelineUnpackFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/artifact.zip", []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewZipPipeline(fs, logger.NewNop())
	res := p.Install(nil, "/artifact.zip", "", &capturingInstaller{fs: fs})
	if res.Category != cruxlib.ErrorCategoryUnpack {
		t.Fatalf("category = %v, want unpack", res.Category)
	}
	if res.Code != unpackErrArchive {
		t.Errorf("code = %d, want %d", res.Code, unpackErrArchive)
	}
}

func TestZipPipelineMissingArtifact(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := NewZipPipeline(fs, logger.NewNop())
	res := p.Install(nil, "/nope.zip", "", &capturingInstaller{fs: fs})
	if res.Category != cruxlib.ErrorCategoryUnpack || res.Code != unpackErrOpen {
		t.Fatalf("result = %+v", res)
	}
}

func TestZipPipelineInstallerFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	buildZip(t, fs, "/artifact.zip", map[string]string{"f": "x"})

	inst := &capturingInstaller{fs: fs, err: errAlwaysFails}
	p := NewZipPipeline(fs, logger.NewNop())
	res := p.Install(nil, "/artifact.zip", "", inst)
	if res.Category != cruxlib.ErrorCategoryInstall {
		t.Fatalf("category = %v, want install", res.Category)
	}
}

func TestZipPipelineRejectsTraversal(t *testing.T) {
	fs := afero.NewMemMapFs()
	buildZip(t, fs, "/artifact.zip", map[string]string{"../escape": "x"})

	p := NewZipPipeline(fs, logger.NewNop())
	res := p.Install(nil, "/artifact.zip", "", &capturingInstaller{fs: fs})
	if res.Category != cruxlib.ErrorCategoryUnpack {
		t.Fatalf("category = %v, want unpack", res.Category)
	}
}

func TestDirInstallerReplacesTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	// Pre-existing install with a file that must disappear.
	if err := afero.WriteFile(fs, "/install/old.bin", []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/stage/new.bin", []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/stage/sub/data", []byte("nested"), 0644); err != nil {
		t.Fatal(err)
	}

	d := NewDirInstaller(fs, "/install")
	if err := d.Install("/stage"); err != nil {
		t.Fatal(err)
	}

	if ok, _ := afero.Exists(fs, "/install/old.bin"); ok {
		t.Error("stale file survived the install")
	}
	b, err := afero.ReadFile(fs, "/install/new.bin")
	if err != nil || string(b) != "v2" {
		t.Errorf("new.bin = %q (%v)", b, err)
	}
	b, err = afero.ReadFile(fs, "/install/sub/data")
	if err != nil || string(b) != "nested" {
		t.Errorf("sub/data = %q (%v)", b, err)
	}
}

func TestDirInstallerRequiresDir(t *testing.T) {
	d := NewDirInstaller(afero.NewMemMapFs(), "")
	if err := d.Install("/stage"); err == nil {
		t.Error("empty install dir accepted")
	}
}
