package cruxlib

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// ErrorCategory classifies where in the pipeline a cycle failed. The
// engine uses only the category: a failed differential attempt falls
// back to the full artifact regardless of category, and a failed full
// attempt is terminal for the cycle regardless of category.
type ErrorCategory int

const (
	ErrorCategoryNone ErrorCategory = iota
	// ErrorCategoryNetwork covers fetch failures, including non-200
	// responses.
	ErrorCategoryNetwork
	// ErrorCategoryUnpack covers verification and unpacking failures.
	ErrorCategoryUnpack
	// ErrorCategoryInstall covers failures reported by the component's
	// own installer.
	ErrorCategoryInstall
)

// String returns the wire name of the category.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorCategoryNone:
		return "none"
	case ErrorCategoryNetwork:
		return "network"
	case ErrorCategoryUnpack:
		return "unpack"
	case ErrorCategoryInstall:
		return "install"
	}
	return "unknown"
}

// InstallResult is the outcome of one pipeline run. A zero Category
// means success.
type InstallResult struct {
	Category ErrorCategory
	Code     int
	Extra    int
}

// InstallPipeline verifies, unpacks and installs a fetched artifact.
// Implementations own the artifact file for the duration of the call;
// the engine removes it afterwards. Install runs off the control
// goroutine and may block.
type InstallPipeline interface {
	Install(pkHash []byte, artifactPath, fingerprint string, installer Installer) InstallResult
}

// VerifyArtifactHash checks that the SHA-256 digest of the file at path
// equals expected. It is a helper for pipeline implementations; the
// engine itself never opens artifacts.
func VerifyArtifactHash(fs afero.Fs, path string, expected []byte) error {
	f, err := fs.Open(path)
	if err != nil {
		return fmt.Errorf("verify artifact: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("verify artifact: %w", err)
	}
	if sum := h.Sum(nil); !bytes.Equal(sum, expected) {
		return fmt.Errorf("verify artifact: digest mismatch")
	}
	return nil
}
