package cruxlib

import (
	"context"
	"errors"
	"log"
	"time"

	version "github.com/hashicorp/go-version"
)

// Status is the outcome of a registration call.
type Status int

const (
	// StatusOK means the component was registered for the first time.
	StatusOK Status = iota
	// StatusReplaced means an existing registration had its component
	// metadata replaced; item state and history were preserved.
	StatusReplaced
)

// ServiceOpts carries the collaborators injected into an update
// service. Zero fields fall back to working defaults; Pipeline is the
// only required collaborator.
type ServiceOpts struct {
	// Fetcher performs the HTTP work. Defaults to a plain fetcher on
	// the OS filesystem.
	Fetcher *Fetcher
	// Interpreter turns manifest responses into per-component results.
	// Defaults to the Omaha XML interpreter.
	Interpreter ManifestInterpreter
	// Pipeline verifies, unpacks and installs fetched artifacts.
	Pipeline InstallPipeline
	// Pings receives outcome telemetry. Defaults to a no-op reporter.
	Pings PingReporter
	// Logger receives engine diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

// cycleWatcher tracks a set of item ids and fires once every one of
// them has reached a terminal-for-cycle state.
type cycleWatcher struct {
	remaining map[string]struct{}
	done      func()
}

// UpdateService owns the item collection and runs the single-flight
// control loop. All mutation happens on one goroutine servicing the
// actions channel; public methods enqueue work there and wait for the
// reply, and completion callbacks from in-flight fetches and installs
// are delivered the same way. That serialization is what enforces the
// single-flight discipline: the wake-up timer is never armed while an
// operation is outstanding, so no two operations ever race on an item.
type UpdateService struct {
	cfg      *Config
	l        *log.Logger
	fetcher  *Fetcher
	interp   ManifestInterpreter
	pipeline InstallPipeline
	pings    PingReporter

	ctx     context.Context
	actions chan func()

	// Everything below is touched only by the control goroutine.
	items     []*UpdateItem
	requested map[string]struct{}
	watchers  []*cycleWatcher
	running   bool
	busy      bool
	timer     *time.Timer
	timerCh   <-chan time.Time
}

// NewUpdateService constructs a service and starts its control
// goroutine. The goroutine exits when ctx is cancelled; Stop only
// pauses scheduling and keeps completion handling alive.
func NewUpdateService(ctx context.Context, cfg *Config, opts *ServiceOpts) (*UpdateService, error) {
	if cfg == nil {
		return nil, errors.New("cruxlib: nil config")
	}
	if opts == nil || opts.Pipeline == nil {
		return nil, errors.New("cruxlib: an install pipeline is required")
	}
	l := opts.Logger
	if l == nil {
		l = log.Default()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(nil, nil, "", l)
	}
	interp := opts.Interpreter
	if interp == nil {
		interp = OmahaInterpreter{}
	}
	pings := opts.Pings
	if pings == nil {
		pings = NopPingReporter{}
	}
	s := &UpdateService{
		cfg:       cfg,
		l:         l,
		fetcher:   fetcher,
		interp:    interp,
		pipeline:  opts.Pipeline,
		pings:     pings,
		ctx:       ctx,
		actions:   make(chan func(), 16),
		requested: make(map[string]struct{}),
	}
	go s.run()
	return s, nil
}

func (s *UpdateService) run() {
	defer func() {
		if s.timer != nil {
			s.timer.Stop()
		}
	}()
	for {
		select {
		case <-s.ctx.Done():
			return
		case fn := <-s.actions:
			fn()
		case <-s.timerCh:
			s.timerCh = nil
			s.processPendingItems()
		}
	}
}

// do runs fn on the control goroutine and waits for it to finish.
func (s *UpdateService) do(fn func()) error {
	done := make(chan struct{})
	select {
	case s.actions <- func() { fn(); close(done) }:
	case <-s.ctx.Done():
		return ErrServiceStopped
	}
	select {
	case <-done:
		return nil
	case <-s.ctx.Done():
		return ErrServiceStopped
	}
}

// post delivers a completion callback to the control goroutine without
// waiting. After the service context is gone it degrades to a no-op,
// which is what lets in-flight operations finish safely after Stop or
// teardown.
func (s *UpdateService) post(fn func()) {
	select {
	case s.actions <- fn:
	case <-s.ctx.Done():
	}
}

func (s *UpdateService) armTimer(d time.Duration) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.NewTimer(d)
	s.timerCh = s.timer.C
}

func (s *UpdateService) disarmTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerCh = nil
}

// Start begins the periodic cycle. The first timer is armed only once
// at least one component is registered; RegisterComponent arms it for
// the first registration when the service is already running.
func (s *UpdateService) Start() error {
	return s.do(func() {
		s.running = true
		if len(s.items) == 0 {
			return
		}
		s.notifyAll(EventUpdaterStarted, 0)
		s.armTimer(s.cfg.InitialDelay)
	})
}

// Stop cancels the wake-up timer and prevents new operations from
// being dispatched. Operations already in flight run to completion and
// their callbacks are still processed; they just no longer re-arm the
// loop.
func (s *UpdateService) Stop() error {
	return s.do(func() {
		s.running = false
		s.disarmTimer()
	})
}

// RegisterComponent validates and upserts a component. Registering an
// id that already exists replaces the component metadata and returns
// StatusReplaced; item state and history are preserved.
func (s *UpdateService) RegisterComponent(c Component) (Status, error) {
	if !c.valid() {
		return StatusOK, ErrInvalidComponent
	}
	status := StatusOK
	err := s.do(func() {
		id := ComponentID(c.PKHash)
		if it := s.findItem(id); it != nil {
			it.Component = c
			status = StatusReplaced
			return
		}
		s.items = append(s.items, &UpdateItem{
			ID:        id,
			State:     StateNew,
			Component: c,
		})
		if s.running && len(s.items) == 1 {
			s.notifyAll(EventUpdaterStarted, 0)
			s.armTimer(s.cfg.InitialDelay)
		}
	})
	return status, err
}

// CheckForUpdateSoon raises the scheduling priority of one component.
// The item is demoted to StateNew and its next manifest query is marked
// on-demand so the server may waive throttling. Items mid-flight are
// rejected with ErrCheckInProgress and their state is left untouched;
// items checked within the on-demand debounce window are rejected with
// ErrCheckTooSoon.
func (s *UpdateService) CheckForUpdateSoon(id string) error {
	var rerr error
	err := s.do(func() {
		it := s.findItem(id)
		if it == nil {
			rerr = ErrComponentUnknown
			return
		}
		rerr = s.requestCheck(it)
	})
	if err != nil {
		return err
	}
	return rerr
}

// requestCheck implements the on-demand demotion for one item. Control
// goroutine only.
func (s *UpdateService) requestCheck(it *UpdateItem) error {
	switch it.State {
	case StateChecking, StateCanUpdate, StateDownloadingDiff,
		StateDownloading, StateUpdatingDiff, StateUpdating:
		return ErrCheckInProgress
	case StateNew:
		// Already pending; just make sure the priority boost sticks.
		s.requested[it.ID] = struct{}{}
	case StateUpdated, StateUpToDate, StateNoUpdate:
		if s.cfg.OnDemandDelay > 0 && time.Since(it.LastCheck) < s.cfg.OnDemandDelay {
			return ErrCheckTooSoon
		}
		it.State = StateNew
		s.requested[it.ID] = struct{}{}
	}
	// Pull the next wake-up in if the loop is sleeping on the long
	// delay. A busy loop re-arms itself on completion anyway.
	if s.timerCh != nil && !s.busy {
		s.armTimer(s.cfg.StepDelay)
	}
	return nil
}

// UpdateSet triggers an on-demand check for every id in ids. The
// returned map records the per-id trigger errors, available as soon as
// the call returns. done, if non-nil, also receives that map once each
// successfully triggered item has finished its cycle; ids that could
// not be triggered are not waited for. done runs on its own goroutine.
func (s *UpdateService) UpdateSet(ids []string, done func(errs map[string]error)) (map[string]error, error) {
	var errs map[string]error
	err := s.do(func() {
		errs = make(map[string]error, len(ids))
		watch := make(map[string]struct{})
		for _, id := range ids {
			it := s.findItem(id)
			if it == nil {
				errs[id] = ErrComponentUnknown
				continue
			}
			if err := s.requestCheck(it); err != nil {
				errs[id] = err
				continue
			}
			errs[id] = nil
			watch[id] = struct{}{}
		}
		if done == nil {
			return
		}
		if len(watch) == 0 {
			go done(errs)
			return
		}
		s.watchers = append(s.watchers, &cycleWatcher{
			remaining: watch,
			done:      func() { done(errs) },
		})
	})
	return errs, err
}

// Items returns a snapshot of every item in registration order. The
// copies are for reading; slices and version pointers inside them are
// shared with the live records.
func (s *UpdateService) Items() []UpdateItem {
	var out []UpdateItem
	_ = s.do(func() {
		out = make([]UpdateItem, 0, len(s.items))
		for _, it := range s.items {
			out = append(out, *it)
		}
	})
	return out
}

// GetItem returns a snapshot of one item.
func (s *UpdateService) GetItem(id string) (UpdateItem, bool) {
	var (
		out UpdateItem
		ok  bool
	)
	_ = s.do(func() {
		if it := s.findItem(id); it != nil {
			out, ok = *it, true
		}
	})
	return out, ok
}

// CheckAll demotes every terminal-state item to StateNew for a forced
// re-check, bypassing the debounce. Items mid-flight are skipped.
// Returns the number of items demoted.
func (s *UpdateService) CheckAll() (int, error) {
	n := 0
	err := s.do(func() {
		for _, it := range s.items {
			if !it.State.TerminalForCycle() && it.State != StateNew {
				continue
			}
			it.State = StateNew
			s.requested[it.ID] = struct{}{}
			n++
		}
		if n > 0 && s.timerCh != nil && !s.busy {
			s.armTimer(s.cfg.StepDelay)
		}
	})
	return n, err
}

func (s *UpdateService) findItem(id string) *UpdateItem {
	for _, it := range s.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// setState applies a transition and, for terminal-for-cycle states,
// releases any batch watchers waiting on the item.
func (s *UpdateService) setState(it *UpdateItem, st State) {
	it.State = st
	if st.TerminalForCycle() {
		s.completeWatchers(it.ID)
	}
}

// changeAllState moves every item with state from to state to and
// returns how many changed.
func (s *UpdateService) changeAllState(from, to State) int {
	count := 0
	for _, it := range s.items {
		if it.State != from {
			continue
		}
		s.setState(it, to)
		count++
	}
	return count
}

func (s *UpdateService) completeWatchers(id string) {
	kept := s.watchers[:0]
	for _, w := range s.watchers {
		delete(w.remaining, id)
		if len(w.remaining) == 0 {
			go w.done()
			continue
		}
		kept = append(kept, w)
	}
	s.watchers = kept
}

func (s *UpdateService) notifyAll(event Event, extra int) {
	for _, it := range s.items {
		it.notify(event, extra)
	}
}

// processPendingItems is one pass of the control loop. It does at most
// one thing: dispatch a download for the first item ready to update,
// or issue one batched manifest query, or re-arm the idle timer. The
// fixed ordering keeps items closest to completion from being starved
// by new check cycles.
func (s *UpdateService) processPendingItems() {
	for _, it := range s.items {
		if it.State != StateCanUpdate {
			continue
		}
		s.startDownload(it)
		return
	}

	var query string
	now := time.Now()

	// Components never seen by the server come first.
	for _, it := range s.items {
		if it.State != StateNew {
			continue
		}
		if !s.addItemToUpdateCheck(it, &query, now) {
			break
		}
		// A priority boost only speeds an item up to the point its
		// check is issued; past that the cycle owes it nothing.
		delete(s.requested, it.ID)
	}

	// Then items already checked, as long as they are stale enough.
	for _, it := range s.items {
		if it.State != StateNoUpdate && it.State != StateUpToDate {
			continue
		}
		if now.Sub(it.LastCheck) < s.cfg.MinimumReCheckWait {
			continue
		}
		if !s.addItemToUpdateCheck(it, &query, now) {
			break
		}
	}

	// Finally items we already updated.
	for _, it := range s.items {
		if it.State != StateUpdated {
			continue
		}
		if now.Sub(it.LastCheck) < s.cfg.MinimumReCheckWait {
			continue
		}
		if !s.addItemToUpdateCheck(it, &query, now) {
			break
		}
	}

	if query != "" {
		s.startUpdateCheck(query)
		return
	}

	s.scheduleNextRun(false)
}

func (s *UpdateService) addItemToUpdateCheck(it *UpdateItem, query *string, now time.Time) bool {
	_, onDemand := s.requested[it.ID]
	if !addQueryString(query, it.ID, it.Component.Version.String(),
		it.Component.Fingerprint, onDemand, s.cfg.URLSizeLimit) {
		return false
	}
	it.beginCheck(now)
	return true
}

func (s *UpdateService) startUpdateCheck(query string) {
	fullURL := makeFinalQuery(s.cfg.UpdateURL, query, s.cfg.ExtraRequestParams)
	s.busy = true
	s.l.Printf("cruxlib: update check: %s", fullURL)
	go func() {
		body, err := s.fetcher.FetchManifest(s.ctx, fullURL)
		s.post(func() { s.onManifestFetched(body, err) })
	}()
}

func (s *UpdateService) onManifestFetched(body []byte, err error) {
	s.busy = false
	if err != nil {
		s.l.Printf("cruxlib: update check failed: %v", err)
		s.onManifestFailed()
		return
	}
	results, perr := s.interp.Interpret(body)
	if perr != nil {
		s.l.Printf("cruxlib: manifest rejected: %v", perr)
		s.onManifestFailed()
		return
	}
	s.applyManifest(results)
}

// onManifestFailed resolves every in-flight check to StateNoUpdate. A
// bad manifest or a failed query is never fatal to the service; the
// next cycle is the retry.
func (s *UpdateService) onManifestFailed() {
	s.changeAllState(StateChecking, StateNoUpdate)
	s.scheduleNextRun(false)
}

// applyManifest updates every StateChecking item mentioned in the
// results, then assumes anything still checking is current. Update
// servers only echo ids they were asked about and have updates for,
// so silence means up to date.
func (s *UpdateService) applyManifest(results []ManifestResult) {
	updatePending := 0
	for _, r := range results {
		it := s.findItem(r.ID)
		if it == nil || it.State != StateChecking {
			continue
		}
		if r.Version == "" {
			s.setState(it, StateNoUpdate)
			continue
		}
		if !isVersionNewer(it.Component.Version, r.Version) {
			s.setState(it, StateUpToDate)
			continue
		}
		if r.MinHostVersion != "" && s.cfg.HostVersion != nil &&
			isVersionNewer(s.cfg.HostVersion, r.MinHostVersion) {
			// The update needs a newer host than we are.
			s.setState(it, StateNoUpdate)
			continue
		}
		nv, verr := version.NewVersion(r.Version)
		if verr != nil {
			s.setState(it, StateNoUpdate)
			continue
		}
		it.CRXURL = r.CRXURL
		it.DiffCRXURL = r.DiffCRXURL
		it.NextVersion = nv
		it.NextFP = r.Fingerprint
		it.State = StateCanUpdate
		updatePending++
		it.notify(EventUpdateFound, 0)
	}

	s.changeAllState(StateChecking, StateUpToDate)
	s.scheduleNextRun(updatePending > 0)
}

// startDownload dispatches the artifact fetch for an item ready to
// update, choosing the differential package when one is offered, it
// has not failed this cycle and the configuration allows deltas.
func (s *UpdateService) startDownload(it *UpdateItem) {
	var url string
	if it.canTryDiff(s.cfg.DeltasEnabled) {
		url = it.DiffCRXURL
		it.State = StateDownloadingDiff
	} else {
		url = it.CRXURL
		it.State = StateDownloading
	}
	// Capture the identity material now; the registration may be
	// replaced while the fetch is in flight.
	id := it.ID
	pkHash := it.Component.PKHash
	fingerprint := it.NextFP
	installer := it.Component.Installer

	s.busy = true
	s.l.Printf("cruxlib: downloading %s for %s", url, id)
	go func() {
		path, err := s.fetcher.FetchArtifact(s.ctx, url)
		s.post(func() {
			s.onArtifactFetched(id, path, err, pkHash, fingerprint, installer)
		})
	}()
}

func (s *UpdateService) onArtifactFetched(id, path string, err error, pkHash []byte, fingerprint string, installer Installer) {
	s.busy = false
	it := s.findItem(id)
	if it == nil {
		s.fetcher.Discard(path)
		return
	}

	if err != nil {
		if it.State == StateDownloadingDiff {
			it.DiffErrorCategory = ErrorCategoryNetwork
			it.DiffErrorCode = fetchErrorCode(err)
			it.DiffUpdateFailed = true
			it.State = StateCanUpdate
			s.scheduleNextRun(true)
			return
		}
		// Both the differential and the full download are out of
		// options: the cycle ends here.
		it.ErrorCategory = ErrorCategoryNetwork
		it.ErrorCode = fetchErrorCode(err)
		s.setState(it, StateNoUpdate)
		it.notify(EventUpdateError, it.ErrorCode)
		s.pings.Report(*it)
		s.scheduleNextRun(false)
		return
	}

	if it.State == StateDownloadingDiff {
		it.State = StateUpdatingDiff
	} else {
		it.State = StateUpdating
	}
	it.notify(EventUpdateReady, 0)

	s.busy = true
	go func() {
		res := s.pipeline.Install(pkHash, path, fingerprint, installer)
		s.fetcher.Discard(path)
		s.post(func() { s.onInstallDone(id, res) })
	}()
}

func (s *UpdateService) onInstallDone(id string, res InstallResult) {
	s.busy = false
	it := s.findItem(id)
	if it == nil {
		return
	}
	success := res.Category == ErrorCategoryNone

	if it.State == StateUpdatingDiff && !success {
		it.DiffErrorCategory = res.Category
		it.DiffErrorCode = res.Code
		it.DiffExtraCode = res.Extra
		it.DiffUpdateFailed = true
		it.State = StateCanUpdate
		s.scheduleNextRun(true)
		return
	}

	if success {
		it.Component.Version = it.NextVersion
		it.Component.Fingerprint = it.NextFP
		s.setState(it, StateUpdated)
		it.notify(EventUpdated, 0)
	} else {
		it.ErrorCategory = res.Category
		it.ErrorCode = res.Code
		it.ExtraCode = res.Extra
		s.setState(it, StateNoUpdate)
		it.notify(EventUpdateError, res.Code)
	}

	s.pings.Report(*it)
	s.scheduleNextRun(false)
}

// scheduleNextRun re-arms the wake-up timer. A step delay is used in
// the middle of an update or while priority-boosted items are waiting;
// otherwise the long idle delay applies. A zero idle delay disables
// rescheduling, which tests use to run a bounded number of cycles.
func (s *UpdateService) scheduleNextRun(step bool) {
	if !s.running {
		return
	}
	delay := s.cfg.NextCheckDelay
	if step || len(s.requested) > 0 {
		delay = s.cfg.StepDelay
	}
	if !step {
		s.notifyAll(EventUpdaterSleeping, 0)
		if delay == 0 {
			return
		}
	}
	s.armTimer(delay)
}
