// Package locator drives one park locator page. Every piece of page state
// is owned by a single event loop; service calls run on their own
// goroutines and report back into the loop.
package locator

import (
	"context"
	"fmt"
	"sync"

	"parks/app"
	"parks/places"
	"parks/ui"
)

// Locator is the state behind one open page.
type Locator struct {
	id   string
	cfg  Config
	svc  places.Service
	tree ui.Tree

	buf    batch
	events chan func()
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	calls  sync.WaitGroup
	err    error

	mapc     *MapController
	auto     *Autocomplete
	markers  *MarkerManager
	sidebar  *Sidebar
	popup    *Popup
	reveals  *RevealQueue
	status   StatusLine
	session  *Session
	sessions uint64
	pending  uint64
}

// Option configures a Locator.
type Option func(*Locator)

// WithClock replaces the clock driving marker reveals.
func WithClock(c Clock) Option {
	return func(l *Locator) {
		l.reveals.clock = c
	}
}

// New returns a locator rendering to tree. Nothing happens until Run.
func New(id string, cfg Config, svc places.Service, tree ui.Tree, opts ...Option) *Locator {
	l := &Locator{
		id:     id,
		cfg:    cfg,
		svc:    svc,
		tree:   tree,
		events: make(chan func(), 64),
		done:   make(chan struct{}),
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())

	l.mapc = NewMapController(&l.buf, cfg)
	l.auto = NewAutocomplete(&l.buf, ui.AutocompleteID, cfg.Country)
	l.markers = NewMarkerManager(&l.buf, func(m *Marker) { l.popup.Open(m) })
	l.sidebar = NewSidebar(&l.buf, func(i int) { l.markers.Click(i) })
	l.popup = NewPopup(&l.buf, l.fetchDetails)
	l.reveals = NewRevealQueue(realClock{}, l.post)
	l.status = StatusLine{tree: &l.buf}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run creates the map and processes events until ctx is done or the page
// can no longer be written to.
func (l *Locator) Run(ctx context.Context) error {
	defer func() {
		l.reveals.Reset(0)
		l.cancel()
		close(l.done)
	}()

	l.init()
	if err := l.flush(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			fn()
			if err := l.flush(); err != nil {
				return err
			}
		}
	}
}

func (l *Locator) init() {
	l.check(l.mapc.Init(l.auto.Country()))
	l.check(l.buf.Apply(
		ui.Op{Op: ui.OpDisplay, ID: ui.NoneFoundID, Show: false},
		ui.Op{Op: ui.OpDisplay, ID: ui.StatusID, Show: false},
	))
}

// Handle queues a browser event.
func (l *Locator) Handle(ev ui.Event) {
	l.post(func() { l.handle(ev) })
}

// Search queues a nearby search over b.
func (l *Locator) Search(b places.Bounds) {
	l.post(func() { l.search(b) })
}

// Do runs fn on the event loop and waits until its output has been
// applied to the page.
func (l *Locator) Do(fn func()) {
	ran := make(chan struct{})
	if !l.post(fn) || !l.post(func() { close(ran) }) {
		return
	}
	select {
	case <-ran:
	case <-l.done:
	}
}

// Flush waits until every queued event and service call has been
// processed.
func (l *Locator) Flush() {
	l.Do(func() {})
	l.calls.Wait()
	l.Do(func() {})
}

// Session returns the current session, or nil before the first search
// succeeds. Call it from the event loop, e.g. inside Do.
func (l *Locator) Session() *Session { return l.session }

func (l *Locator) post(fn func()) bool {
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

func (l *Locator) handle(ev ui.Event) {
	switch ev.Type {
	case ui.EventViewport:
		l.mapc.Resize(ev.Width, ev.Height)
	case ui.EventPlaceChanged:
		loc, ok, err := l.auto.PlaceChanged(ev.Place)
		l.check(err)
		if ok {
			l.selectPlace(loc)
		}
	case ui.EventMarkerClick, ui.EventEntryClick, ui.EventEntryHover:
		if l.session == nil || ev.Session != l.session.ID {
			app.Log("locator", "%s: dropping %s from session %d", l.id, ev.Type, ev.Session)
			return
		}
		switch ev.Type {
		case ui.EventMarkerClick:
			l.markers.Click(ev.Index)
		case ui.EventEntryClick:
			l.sidebar.Click(ev.Index)
		default:
			l.check(l.sidebar.Hover(ev.Index, ev.Hover))
		}
	default:
		app.Log("locator", "%s: unknown event %q", l.id, ev.Type)
	}
}

func (l *Locator) selectPlace(p places.LatLng) {
	l.check(l.mapc.Recenter(p))
	l.check(l.mapc.SetZoom(l.cfg.SelectZoom))
	l.search(l.mapc.Bounds())
}

func (l *Locator) search(b places.Bounds) {
	l.sessions++
	id := l.sessions
	l.pending = id
	req := places.NearbyRequest{Bounds: b, Type: l.cfg.Category}
	l.async(func(ctx context.Context) func() {
		results, err := l.svc.Nearby(ctx, req)
		return func() { l.searched(id, b, results, err) }
	})
}

func (l *Locator) searched(id uint64, b places.Bounds, results []places.Place, err error) {
	if id != l.pending {
		app.Log("locator", "%s: dropping superseded search %d", l.id, id)
		return
	}
	if err != nil {
		app.Log("locator", "%s: search %d: %v", l.id, id, err)
		l.check(l.status.Show(SearchFailed))
		return
	}
	l.check(l.status.Hide())
	l.replace(&Session{ID: id, Bounds: b, Results: results})
}

// replace tears down the current session and renders s in its place.
func (l *Locator) replace(s *Session) {
	l.reveals.Reset(s.ID)
	l.popup.Reset()
	l.check(l.markers.Clear(s.ID))
	l.check(l.sidebar.Clear(s.ID))

	v := BuildView(s.Results, l.cfg.Stagger)
	for _, it := range v.Items {
		m, err := l.markers.AddDeferred(it.Place, it.Index)
		l.check(err)
		e, err := l.sidebar.Render(it.Place, it.Index)
		l.check(err)
		s.Markers = append(s.Markers, m)
		s.Entries = append(s.Entries, e)

		index := it.Index
		l.reveals.Schedule(s.ID, index, it.RevealAfter, func() {
			l.check(l.markers.Show(index))
		})
	}
	if v.NoneFound {
		l.check(l.sidebar.ShowNoResults())
	}
	l.session = s
	app.Log("locator", "%s: session %d has %d results", l.id, s.ID, len(s.Results))
}

func (l *Locator) fetchDetails(placeID string, done func(places.Detail, error)) {
	l.async(func(ctx context.Context) func() {
		d, err := l.svc.Details(ctx, placeID)
		return func() { done(d, err) }
	})
}

// async runs call off the loop with the configured timeout and posts the
// continuation it returns.
func (l *Locator) async(call func(ctx context.Context) func()) {
	l.calls.Add(1)
	go func() {
		defer l.calls.Done()
		ctx, cancel := context.WithTimeout(l.ctx, l.cfg.Timeout)
		defer cancel()
		l.post(call(ctx))
	}()
}

func (l *Locator) check(err error) {
	if err != nil && l.err == nil {
		l.err = err
	}
}

// flush sends the ops gathered while handling one event as one frame.
func (l *Locator) flush() error {
	err := l.err
	l.err = nil
	if len(l.buf.ops) > 0 {
		ops := l.buf.ops
		l.buf.ops = nil
		if aerr := l.tree.Apply(ops...); aerr != nil {
			return fmt.Errorf("locator %s: apply: %w", l.id, aerr)
		}
	}
	if err != nil {
		app.Log("locator", "%s: %v", l.id, err)
	}
	return nil
}

// batch collects ops until the end of the current event.
type batch struct {
	ops []ui.Op
}

func (b *batch) Apply(ops ...ui.Op) error {
	b.ops = append(b.ops, ops...)
	return nil
}
