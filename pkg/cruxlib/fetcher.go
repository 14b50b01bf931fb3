package cruxlib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/spf13/afero"
)

var ErrInsufficientDiskSpace = errors.New("insufficient disk space for artifact")

// fetchErrorTransport is the code recorded when a request failed below
// the HTTP layer (DNS, connect, read). HTTP failures record the
// response code instead.
const fetchErrorTransport = -1

// FetchError classifies a failed fetch for error bookkeeping. Code is
// the HTTP response code for non-200 answers, or fetchErrorTransport
// for network-level failures.
type FetchError struct {
	Code int
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch failed (code %d): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("fetch failed with code %d", e.Code)
}

func (e *FetchError) Unwrap() error { return e.Err }

// fetchErrorCode extracts the bookkeeping code from err, or 0 when err
// is nil.
func fetchErrorCode(err error) int {
	if err == nil {
		return 0
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fetchErrorTransport
}

// Fetcher performs the engine's HTTP requests: manifest queries fetched
// to memory and artifacts streamed to temporary files. Requests carry
// no credentials or cookies, disable caching and are never retried on
// 5xx; retry happens only through the next scheduling cycle.
type Fetcher struct {
	client *http.Client
	fs     afero.Fs
	tmpDir string
	log    *log.Logger
}

// NewFetcher creates a Fetcher. A nil client falls back to a plain
// http.Client, a nil fs to the OS filesystem and an empty tmpDir to the
// system temp directory.
func NewFetcher(client *http.Client, fs afero.Fs, tmpDir string, l *log.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &Fetcher{client: client, fs: fs, tmpDir: tmpDir, log: l}
}

func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Code: fetchErrorTransport, Err: err}
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Code: fetchErrorTransport, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &FetchError{Code: resp.StatusCode}
	}
	return resp, nil
}

// FetchManifest performs one manifest query and returns the raw
// response body.
func (f *Fetcher) FetchManifest(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Code: fetchErrorTransport, Err: err}
	}
	return body, nil
}

// FetchArtifact downloads url into a temporary file and returns its
// path. The caller owns the file and removes it via Discard once the
// install pipeline is done with it.
func (f *Fetcher) FetchArtifact(ctx context.Context, url string) (string, error) {
	resp, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkDiskSpace(f.tmpDir, resp.ContentLength); err != nil {
		return "", &FetchError{Code: fetchErrorTransport, Err: err}
	}

	tmp, err := afero.TempFile(f.fs, f.tmpDir, "crx-*.tmp")
	if err != nil {
		return "", &FetchError{Code: fetchErrorTransport, Err: err}
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		_ = f.fs.Remove(tmp.Name())
		return "", &FetchError{Code: fetchErrorTransport, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = f.fs.Remove(tmp.Name())
		return "", &FetchError{Code: fetchErrorTransport, Err: err}
	}
	return tmp.Name(), nil
}

// Discard removes a fetched artifact file.
func (f *Fetcher) Discard(path string) {
	if path == "" {
		return
	}
	if err := f.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		f.log.Printf("fetcher: could not remove artifact %s: %v", path, err)
	}
}

// Fs exposes the filesystem artifacts are written to, so install
// pipelines can read them back through the same abstraction.
func (f *Fetcher) Fs() afero.Fs { return f.fs }
