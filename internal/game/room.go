package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scythe504/guessit-backend/internal"
)

const defaultUsername = "Guest"

// =============================================================================
// ROOM MANAGEMENT
// =============================================================================

// Room is one game session. Every mutation happens under mu, including the
// ones triggered by timers and by the image lookup, so each room behaves
// as a single serialized actor.
type Room struct {
	mu sync.Mutex

	key          internal.RoomKey
	settings     internal.RoomSettings
	state        internal.RoomState
	participants internal.Participants
	customWords  []string
	round        round

	// generation changes whenever a round starts or ends, and on destroy.
	// Timers and image lookups compare against it to detect staleness.
	generation uint64
	joined     bool
	destroyed  bool
	deactivate Timer

	words        WordProvider
	images       ImageProvider
	scheduler    Scheduler
	recorder     Recorder
	imageTimeout time.Duration
	log          zerolog.Logger

	reap chan<- internal.RoomKey
}

type round struct {
	target    string
	hidden    internal.HiddenWord
	hintTimer Timer
	endTimer  Timer
}

func newRoom(key internal.RoomKey, settings internal.RoomSettings, deps Deps, reap chan<- internal.RoomKey) *Room {
	r := &Room{
		key:          key,
		settings:     settings,
		state:        internal.StateWaiting,
		participants: internal.Participants{},
		customWords:  []string{},
		words:        deps.Words,
		images:       deps.Images,
		scheduler:    deps.Scheduler,
		recorder:     deps.Recorder,
		imageTimeout: deps.ImageTimeout,
		log:          deps.Logger.With().Str("room", string(key)).Logger(),
		reap:         reap,
	}

	r.deactivate = r.scheduler.AfterFunc(settings.DeactivateAfter(), r.deactivateIfUnused)

	r.log.Info().
		Int("maxPlayers", settings.MaxPlayers).
		Int("gameDurationSeconds", settings.GameDurationSeconds).
		Bool("disableHints", settings.DisableHints).
		Bool("customWords", settings.CustomWordsMode).
		Msg("[newRoom] room created")
	return r
}

func (r *Room) Key() internal.RoomKey {
	return r.key
}

func (r *Room) Settings() internal.RoomSettings {
	return r.settings
}

func (r *Room) State() internal.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Room) Participants() internal.Participants {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(internal.Participants(nil), r.participants...)
}

func (r *Room) hasParticipant(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.participants.Find(id)
	return ok
}

func (r *Room) CustomWordCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.customWords)
}

// Join admits conn as a new participant. On success the joiner gets a
// snapshot of the room and everybody else a participant.joined event.
func (r *Room) Join(conn internal.Connection, username string) error {
	r.mu.Lock()

	if r.destroyed {
		r.mu.Unlock()
		return ErrWrongKey
	}
	if r.state != internal.StateWaiting {
		r.mu.Unlock()
		return ErrGameInProgress
	}
	if len(r.participants) >= r.settings.MaxPlayers {
		r.mu.Unlock()
		return ErrRoomFull
	}
	if _, dup := r.participants.Find(conn.ID()); dup {
		r.mu.Unlock()
		panic(fmt.Sprintf("connection %s joined room %s twice", conn.ID(), r.key))
	}

	if !r.joined {
		r.joined = true
		stopTimer(&r.deactivate)
	}

	p := internal.NewParticipant(conn, r.uniqueUsername(username))
	r.participants = append(r.participants, p)

	r.send(p, internal.EventGameDataReceived, internal.GameDataReceivedPayload{
		ID:                  p.ID,
		Username:            p.Username,
		MaxPlayers:          r.settings.MaxPlayers,
		GameDurationSeconds: r.settings.GameDurationSeconds,
		HintsEnabled:        !r.settings.DisableHints,
		CustomWords: internal.CustomWordsInfo{
			Enabled: r.settings.CustomWordsMode,
			Count:   len(r.customWords),
		},
		Participants: r.participants.Summaries(),
	})
	r.broadcastExcept(p.ID, internal.EventParticipantJoined, internal.UsernamePayload{Username: p.Username})

	r.log.Info().Str("participant", p.ID).Str("username", p.Username).
		Int("participants", len(r.participants)).Msg("[Join] participant joined")
	r.mu.Unlock()

	// Registered outside the lock: an already closed connection runs the
	// callback straight away.
	conn.OnClose(func() { r.Leave(p.ID) })
	return nil
}

// Leave removes a participant after its connection closed. Unknown ids
// are ignored so it can be called more than once.
func (r *Room) Leave(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return
	}
	removed, rest, ok := r.participants.Remove(id)
	if !ok {
		return
	}
	r.participants = rest

	r.broadcast(internal.EventParticipantLeft, internal.UsernamePayload{Username: removed.Username})
	r.log.Info().Str("participant", id).Str("username", removed.Username).
		Int("participants", len(r.participants)).Msg("[Leave] participant left")

	if len(r.participants) == 0 {
		r.destroy("empty")
		return
	}

	if removed.Status != internal.StatusGuessed {
		r.startIfReady()
	}
	if r.state == internal.StatePlaying && removed.Status != internal.StatusGuessed && r.participants.AllGuessed() {
		r.endRound("all_guessed")
	}
}

// uniqueUsername falls back to the default name for blank input and adds
// a numeric suffix until the name is free.
func (r *Room) uniqueUsername(requested string) string {
	base := strings.TrimSpace(requested)
	if base == "" {
		base = defaultUsername
	}
	name := base
	for r.participants.HasUsername(name) {
		name = fmt.Sprintf("%s%d", base, rand.IntN(10000)+1000)
	}
	return name
}

// deactivateIfUnused is the grace-period callback armed at creation. The
// first join disarms it for good.
func (r *Room) deactivateIfUnused() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed || r.joined || len(r.participants) > 0 {
		return
	}
	r.log.Info().Msg("[deactivateIfUnused] nobody joined in time")
	r.destroy("unused")
}

// destroy cancels all timers and hands the key to the registry. After it
// every operation on the room fails with ErrWrongKey.
func (r *Room) destroy(reason string) {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.generation++
	stopTimer(&r.deactivate)
	stopTimer(&r.round.hintTimer)
	stopTimer(&r.round.endTimer)
	r.round = round{}

	r.log.Info().Str("reason", reason).Msg("[destroy] room destroyed")

	select {
	case r.reap <- r.key:
	default:
		key := r.key
		go func() { r.reap <- key }()
	}
}
