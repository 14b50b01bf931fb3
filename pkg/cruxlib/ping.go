package cruxlib

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/url"

	version "github.com/hashicorp/go-version"
)

// PingReporter receives outcome telemetry for an item exactly when it
// leaves an in-flight state into a terminal-for-cycle state. Calls must
// never block the control loop; the engine passes a value copy of the
// item and does not retry failed reports.
type PingReporter interface {
	Report(item UpdateItem)
}

// NopPingReporter discards all reports.
type NopPingReporter struct{}

func (NopPingReporter) Report(UpdateItem) {}

// HTTPPingSender posts one Omaha-style outcome event per report to the
// configured ping URL. Sends are fire-and-forget: each runs on its own
// goroutine and a failure is logged and dropped.
type HTTPPingSender struct {
	url    string
	client *http.Client
	log    *log.Logger
}

// NewHTTPPingSender creates a sender posting to pingURL. A nil client
// falls back to http.DefaultClient.
func NewHTTPPingSender(pingURL string, client *http.Client, l *log.Logger) *HTTPPingSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPingSender{url: pingURL, client: client, log: l}
}

// Report posts the outcome event for item. Returns immediately.
func (p *HTTPPingSender) Report(item UpdateItem) {
	if p.url == "" {
		return
	}
	body := BuildPingBody(item)
	go func() {
		resp, err := p.client.Post(p.url, "application/xml", bytes.NewReader(body))
		if err != nil {
			p.log.Printf("ping: send failed for %s: %v", item.ID, err)
			return
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			p.log.Printf("ping: server returned %d for %s", resp.StatusCode, item.ID)
		}
	}()
}

// BuildPingBody renders the Omaha event element for a completed cycle.
// Event type 3 is "update complete"; eventresult 1 is success.
func BuildPingBody(item UpdateItem) []byte {
	result := 0
	if item.State == StateUpdated {
		result = 1
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<o:app appid="%s" version="%s" nextversion="%s">`,
		url.QueryEscape(item.ID),
		versionString(item.PreviousVersion),
		versionString(item.NextVersion))
	fmt.Fprintf(&buf, `<o:event eventtype="3" eventresult="%d" errorcat="%d" errorcode="%d" extracode1="%d"`,
		result, item.ErrorCategory, item.ErrorCode, item.ExtraCode)
	if item.DiffUpdateFailed || item.DiffErrorCategory != ErrorCategoryNone {
		fmt.Fprintf(&buf, ` diffresult="0" differrorcat="%d" differrorcode="%d" diffextracode1="%d"`,
			item.DiffErrorCategory, item.DiffErrorCode, item.DiffExtraCode)
	}
	buf.WriteString("/></o:app>")
	return buf.Bytes()
}

func versionString(v *version.Version) string {
	if v == nil {
		return "0.0.0.0"
	}
	return v.String()
}
