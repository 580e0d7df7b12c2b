package game

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/guessit-backend/internal"
	"github.com/scythe504/guessit-backend/internal/words"
)

// --- Connection ---

type sentEvent struct {
	Event   internal.Event
	Payload any
}

type fakeConn struct {
	id string

	mu          sync.Mutex
	events      []sentEvent
	closed      bool
	closeReason string
	onClose     []func()
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(event internal.Event, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, sentEvent{Event: event, Payload: payload})
	return nil
}

func (c *fakeConn) Close(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.closeReason = reason
}

func (c *fakeConn) OnClose(callback func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = append(c.onClose, callback)
}

// disconnect simulates the transport going away.
func (c *fakeConn) disconnect() {
	c.mu.Lock()
	callbacks := c.onClose
	c.onClose = nil
	c.closed = true
	c.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}

func (c *fakeConn) eventTypes() []internal.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]internal.Event, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Event)
	}
	return out
}

func (c *fakeConn) count(event internal.Event) int {
	n := 0
	for _, e := range c.eventTypes() {
		if e == event {
			n++
		}
	}
	return n
}

// last returns the payload of the most recent event of the given type.
func (c *fakeConn) last(t *testing.T, event internal.Event) any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Event == event {
			return c.events[i].Payload
		}
	}
	require.Failf(t, "event not sent", "connection %s never received %s", c.id, event)
	return nil
}

// lastJSON is last encoded as it would go over the wire.
func (c *fakeConn) lastJSON(t *testing.T, event internal.Event) string {
	t.Helper()
	data, err := json.Marshal(c.last(t, event))
	require.NoError(t, err)
	return string(data)
}

func (c *fakeConn) isClosed() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed, c.closeReason
}

// --- Scheduler ---

type fakeTimer struct {
	s       *fakeScheduler
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeScheduler never fires on its own; tests fire timers explicitly.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) pending(d time.Duration) []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTimer
	for _, t := range s.timers {
		if t.d == d && !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs the oldest pending timer with duration d.
func (s *fakeScheduler) fire(t *testing.T, d time.Duration) {
	t.Helper()
	timers := s.pending(d)
	require.NotEmptyf(t, timers, "no pending timer for %v", d)
	s.fireTimer(timers[0])
}

// fireTimer runs the callback even if the timer was stopped, the way a
// timer that already expired races with Stop.
func (s *fakeScheduler) fireTimer(timer *fakeTimer) {
	s.mu.Lock()
	timer.fired = true
	s.mu.Unlock()
	timer.f()
}

// --- ImageProvider ---

type MockImageProvider struct {
	mock.Mock
}

func (m *MockImageProvider) ImageURLs(ctx context.Context, keyword string) ([]string, error) {
	args := m.Called(ctx, keyword)
	return args.Get(0).([]string), args.Error(1)
}

// --- Recorder ---

type countingRecorder struct {
	created, destroyed, started, ended atomic.Int32
}

func (c *countingRecorder) RoomCreated()      { c.created.Add(1) }
func (c *countingRecorder) RoomDestroyed()    { c.destroyed.Add(1) }
func (c *countingRecorder) RoundStarted()     { c.started.Add(1) }
func (c *countingRecorder) RoundEnded(string) { c.ended.Add(1) }

// --- Setup ---

type testEnv struct {
	registry  *Registry
	scheduler *fakeScheduler
	recorder  *countingRecorder
}

func newTestEnv(t *testing.T, images ImageProvider) *testEnv {
	t.Helper()
	provider, err := words.NewProvider([]string{"apple"})
	require.NoError(t, err)

	env := &testEnv{
		scheduler: &fakeScheduler{},
		recorder:  &countingRecorder{},
	}
	logger := zerolog.Nop()
	env.registry = NewRegistry(Deps{
		Words:     provider,
		Images:    images,
		Scheduler: env.scheduler,
		Recorder:  env.recorder,
		Logger:    &logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go env.registry.Run(ctx)
	return env
}

func (e *testEnv) createRoom(t *testing.T, settings internal.RoomSettings) *Room {
	t.Helper()
	res := e.registry.Create(settings)
	room, ok := e.registry.Lookup(res.Key)
	require.True(t, ok)
	return room
}

func (e *testEnv) join(t *testing.T, room *Room, ids ...string) []*fakeConn {
	t.Helper()
	conns := make([]*fakeConn, 0, len(ids))
	for _, id := range ids {
		c := newFakeConn(id)
		require.NoError(t, room.Join(c, id))
		conns = append(conns, c)
	}
	return conns
}

// startRound readies every participant and waits for game.started.
func (e *testEnv) startRound(t *testing.T, room *Room, conns []*fakeConn) {
	t.Helper()
	before := conns[0].count(internal.EventGameStarted)
	for _, c := range conns {
		require.NoError(t, room.SetReady(c.id))
	}
	require.Eventually(t, func() bool {
		return conns[0].count(internal.EventGameStarted) == before+1
	}, time.Second, 5*time.Millisecond)
}
