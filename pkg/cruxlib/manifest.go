package cruxlib

import (
	"encoding/xml"
	"fmt"
)

// ManifestResult is one per-component entry of an interpreted server
// response. An empty Version means the server has no update for the id.
type ManifestResult struct {
	ID string
	// Version announced by the server. Empty means no update.
	Version string
	// CRXURL locates the full package. Required when Version is set.
	CRXURL string
	// DiffCRXURL locates the differential package, when one exists.
	DiffCRXURL string
	// Fingerprint of the announced package payload.
	Fingerprint string
	// MinHostVersion gates the update on the embedding application's
	// version. Empty means no gate.
	MinHostVersion string
}

// ManifestInterpreter turns a raw server response into per-component
// results. Implementations must be pure: no retained state, safe to
// call from any goroutine.
type ManifestInterpreter interface {
	Interpret(body []byte) ([]ManifestResult, error)
}

// OmahaInterpreter reads the Omaha update response XML dialect. It only
// consumes the subset of the grammar the engine acts on: per-app
// updatecheck elements with codebase, diff codebase, fingerprint,
// version and minimum host version attributes.
type OmahaInterpreter struct{}

type omahaResponse struct {
	XMLName xml.Name   `xml:"gupdate"`
	Apps    []omahaApp `xml:"app"`
}

type omahaApp struct {
	AppID       string            `xml:"appid,attr"`
	UpdateCheck *omahaUpdateCheck `xml:"updatecheck"`
}

type omahaUpdateCheck struct {
	Codebase       string `xml:"codebase,attr"`
	CodebaseDiff   string `xml:"codebasediff,attr"`
	Version        string `xml:"version,attr"`
	Fingerprint    string `xml:"fp,attr"`
	ProdVersionMin string `xml:"prodversionmin,attr"`
}

// Interpret parses body and returns one result per app element that
// carries an updatecheck. Apps without an updatecheck are reported with
// an empty version, which the engine treats as "no update".
func (OmahaInterpreter) Interpret(body []byte) ([]ManifestResult, error) {
	var resp omahaResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("interpret manifest: %w", err)
	}
	results := make([]ManifestResult, 0, len(resp.Apps))
	for _, app := range resp.Apps {
		r := ManifestResult{ID: app.AppID}
		if uc := app.UpdateCheck; uc != nil {
			r.Version = uc.Version
			r.CRXURL = uc.Codebase
			r.DiffCRXURL = uc.CodebaseDiff
			r.Fingerprint = uc.Fingerprint
			r.MinHostVersion = uc.ProdVersionMin
		}
		results = append(results, r)
	}
	return results, nil
}
