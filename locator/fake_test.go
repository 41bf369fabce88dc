package locator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"parks/places"
	"parks/ui"
)

// fakeClock fires timers only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward and runs every timer that came due, earliest
// first.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

// fakeService answers from canned data. A search or details call blocks
// while its gate is set and not yet closed.
type fakeService struct {
	mu          sync.Mutex
	searches    [][]places.Place
	searchErr   map[int]error
	searchGate  map[int]chan struct{}
	details     map[string]places.Detail
	detailsErr  error
	detailsGate map[string]chan struct{}

	nearbyCalls  []places.NearbyRequest
	detailsCalls []string
}

func newFakeService() *fakeService {
	return &fakeService{
		searchErr:   map[int]error{},
		searchGate:  map[int]chan struct{}{},
		details:     map[string]places.Detail{},
		detailsGate: map[string]chan struct{}{},
	}
}

func (f *fakeService) Nearby(ctx context.Context, req places.NearbyRequest) ([]places.Place, error) {
	f.mu.Lock()
	n := len(f.nearbyCalls)
	f.nearbyCalls = append(f.nearbyCalls, req)
	gate := f.searchGate[n]
	err := f.searchErr[n]
	var results []places.Place
	if n < len(f.searches) {
		results = f.searches[n]
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (f *fakeService) Details(ctx context.Context, id string) (places.Detail, error) {
	f.mu.Lock()
	f.detailsCalls = append(f.detailsCalls, id)
	gate := f.detailsGate[id]
	d, ok := f.details[id]
	err := f.detailsErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return places.Detail{}, err
	}
	if !ok {
		return places.Detail{}, places.ErrNotFound
	}
	return d, nil
}

func (f *fakeService) Suggest(ctx context.Context, input, country string) ([]places.Prediction, error) {
	return nil, errors.New("not used")
}

func (f *fakeService) Resolve(ctx context.Context, id string) (places.Place, error) {
	return places.Place{}, errors.New("not used")
}

func (f *fakeService) NearbyCalls() []places.NearbyRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]places.NearbyRequest(nil), f.nearbyCalls...)
}

func (f *fakeService) DetailsCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.detailsCalls...)
}

// parks returns n results named after prefix.
func parks(prefix string, n int) []places.Place {
	out := make([]places.Place, n)
	for i := range out {
		out[i] = places.Place{
			ID:       fmt.Sprintf("%s%d", prefix, i),
			Name:     fmt.Sprintf("%s Park %d", prefix, i),
			Vicinity: fmt.Sprintf("%d Main St", i+1),
			Location: places.LatLng{Lat: 40 + float64(i)/1000, Lng: -74 - float64(i)/1000},
		}
	}
	return out
}

// startLocator runs a locator against a recorder until the test ends.
func startLocator(t *testing.T, svc places.Service) (*Locator, *ui.Recorder, *fakeClock) {
	t.Helper()
	rec := ui.NewRecorder()
	clock := &fakeClock{}
	l := New("test", DefaultConfig(), svc, rec, WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Run: %v", err)
		}
	})
	l.Flush()
	return l, rec, clock
}

func selectAddress(l *Locator, lat, lng float64) {
	l.Handle(ui.Event{
		Type:  ui.EventPlaceChanged,
		Place: &ui.SelectedPlace{PlaceID: "addr", Name: "Somewhere", Location: &ui.LatLng{Lat: lat, Lng: lng}},
	})
	l.Flush()
}

// click sends a click the way the browser does, tagged with the session
// currently on screen.
func click(l *Locator, typ string, index int) {
	l.Handle(ui.Event{Type: typ, Index: index, Session: sessionID(l)})
	l.Flush()
}

func sessionID(l *Locator) uint64 {
	var id uint64
	l.Do(func() {
		if s := l.Session(); s != nil {
			id = s.ID
		}
	})
	return id
}
