package pingstore

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/cruxd/cruxd/pkg/cruxlib"
	"github.com/cruxd/cruxd/pkg/logger"
)

const drainBatchSize = 32

// Reporter adapts a Store to cruxlib.PingReporter. Journal failures
// are logged and dropped; telemetry is never allowed to disturb the
// update engine.
type Reporter struct {
	store *Store
	log   logger.Logger
}

func NewReporter(store *Store, l logger.Logger) *Reporter {
	return &Reporter{store: store, log: l}
}

func (r *Reporter) Report(item cruxlib.UpdateItem) {
	if err := r.store.Record(item); err != nil {
		r.log.Warning("pingstore: %v", err)
	}
}

var _ cruxlib.PingReporter = (*Reporter)(nil)

// Drainer periodically posts unsent journal rows to the ping endpoint.
// Rows that fail to send stay pending and are retried on the next
// interval.
type Drainer struct {
	store    *Store
	url      string
	client   *http.Client
	log      logger.Logger
	interval time.Duration
}

// NewDrainer builds a drainer posting to pingURL. A nil client falls
// back to http.DefaultClient; a zero interval defaults to one minute.
func NewDrainer(store *Store, pingURL string, client *http.Client, l logger.Logger, interval time.Duration) *Drainer {
	if client == nil {
		client = http.DefaultClient
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Drainer{store: store, url: pingURL, client: client, log: l, interval: interval}
}

// Run drains on a fixed interval until ctx is cancelled. An empty ping
// URL turns the drainer into a journal-only mode where rows accumulate
// until pruned.
func (d *Drainer) Run(ctx context.Context) {
	if d.url == "" {
		return
	}
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.DrainOnce(ctx)
		}
	}
}

// DrainOnce sends one batch of pending rows and returns how many were
// delivered.
func (d *Drainer) DrainOnce(ctx context.Context) int {
	pending, err := d.store.Pending(drainBatchSize)
	if err != nil {
		d.log.Warning("pingstore: %v", err)
		return 0
	}
	var sent []int64
	for _, p := range pending {
		if err := d.send(ctx, p.Body); err != nil {
			d.log.Warning("pingstore: send for %s: %v", p.ComponentID, err)
			// Preserve ordering per component: stop at the first
			// failure rather than delivering newer rows first.
			break
		}
		sent = append(sent, p.ID)
	}
	if err := d.store.MarkSent(sent); err != nil {
		d.log.Warning("pingstore: %v", err)
	}
	return len(sent)
}

func (d *Drainer) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/xml")
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &cruxlib.FetchError{Code: resp.StatusCode}
	}
	return nil
}
