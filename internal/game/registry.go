package game

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scythe504/guessit-backend/internal"
)

const reapBuffer = 64

// =============================================================================
// REGISTRY
// =============================================================================

// CreateResult is returned to the room creator.
type CreateResult struct {
	Key                    internal.RoomKey `json:"key"`
	WillDeleteAfterSeconds int              `json:"willDeleteAfterSeconds"`
}

// Registry owns every live room. Rooms report their own destruction on the
// reap channel and Run removes them, so a destroyed room can never be
// looked up again.
type Registry struct {
	mu    sync.RWMutex
	rooms map[internal.RoomKey]*Room

	deps Deps
	reap chan internal.RoomKey
	log  zerolog.Logger
}

// NewRegistry builds an empty registry. The caller must start Run: until
// it does, destroyed rooms stay registered and every destroy past the
// first reapBuffer waits on a goroutine for Run to pick its key up.
func NewRegistry(deps Deps) *Registry {
	deps = deps.withDefaults()
	return &Registry{
		rooms: make(map[internal.RoomKey]*Room),
		deps:  deps,
		reap:  make(chan internal.RoomKey, reapBuffer),
		log:   deps.Logger.With().Str("component", "registry").Logger(),
	}
}

// Run removes destroyed rooms until ctx is done.
func (g *Registry) Run(ctx context.Context) {
	g.log.Info().Msg("[Run] registry started")
	for {
		select {
		case <-ctx.Done():
			g.log.Info().Msg("[Run] registry stopped")
			return
		case key := <-g.reap:
			g.remove(key)
		}
	}
}

// Create registers a new room with a fresh key.
func (g *Registry) Create(settings internal.RoomSettings) CreateResult {
	settings = settings.WithDefaults()

	g.mu.Lock()
	key := internal.RoomKey(uuid.NewString())
	for {
		if _, taken := g.rooms[key]; !taken {
			break
		}
		key = internal.RoomKey(uuid.NewString())
	}
	room := newRoom(key, settings, g.deps, g.reap)
	g.rooms[key] = room
	count := len(g.rooms)
	g.mu.Unlock()

	g.deps.Recorder.RoomCreated()
	g.log.Info().Str("room", string(key)).Int("rooms", count).Msg("[Create] room registered")

	return CreateResult{Key: key, WillDeleteAfterSeconds: settings.DeactivateAfterSeconds}
}

func (g *Registry) Lookup(key internal.RoomKey) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[key]
	return room, ok
}

// IsParticipant reports whether id is currently a participant of room key.
func (g *Registry) IsParticipant(key internal.RoomKey, id string) bool {
	room, ok := g.Lookup(key)
	return ok && room.hasParticipant(id)
}

func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

func (g *Registry) remove(key internal.RoomKey) {
	g.mu.Lock()
	_, ok := g.rooms[key]
	delete(g.rooms, key)
	count := len(g.rooms)
	g.mu.Unlock()

	if !ok {
		return
	}
	g.deps.Recorder.RoomDestroyed()
	g.log.Info().Str("room", string(key)).Int("rooms", count).Msg("[remove] room unregistered")
}

// RouteJoin hands a fresh connection to its room. Every rejection is
// reported with a connection.error event followed by closing the
// connection with the same reason.
func (g *Registry) RouteJoin(conn internal.Connection, key internal.RoomKey, username string) {
	if key == "" {
		rejectConnection(conn, internal.ReasonKeyNotProvided)
		return
	}
	room, ok := g.Lookup(key)
	if !ok {
		rejectConnection(conn, internal.ReasonWrongKey)
		return
	}

	err := room.Join(conn, username)
	switch {
	case err == nil:
	case errors.Is(err, ErrGameInProgress):
		rejectConnection(conn, internal.ReasonGameInProgress)
	case errors.Is(err, ErrRoomFull):
		rejectConnection(conn, internal.ReasonRoomIsFull)
	default:
		rejectConnection(conn, internal.ReasonWrongKey)
	}
	if err != nil {
		g.log.Debug().Err(err).Str("room", string(key)).Str("connection", conn.ID()).
			Msg("[RouteJoin] join rejected")
	}
}

func rejectConnection(conn internal.Connection, reason internal.ConnectionErrorReason) {
	_ = conn.Send(internal.EventConnectionError, internal.ConnectionErrorPayload{Reason: reason})
	conn.Close(string(reason))
}

// withRoom resolves key and runs op on the room.
func (g *Registry) withRoom(key internal.RoomKey, op func(*Room) error) error {
	room, ok := g.Lookup(key)
	if !ok {
		return ErrWrongKey
	}
	return op(room)
}

func (g *Registry) SetReady(key internal.RoomKey, id string) error {
	return g.withRoom(key, func(r *Room) error {
		return r.SetReady(id)
	})
}

func (g *Registry) Guess(key internal.RoomKey, id, guess string) (bool, error) {
	var correct bool
	err := g.withRoom(key, func(r *Room) error {
		var err error
		correct, err = r.Guess(id, guess)
		return err
	})
	return correct, err
}

func (g *Registry) AddCustomWord(key internal.RoomKey, id, word string) error {
	return g.withRoom(key, func(r *Room) error {
		return r.AddCustomWord(id, word)
	})
}
