package internal

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	DefaultMaxPlayers             = 5
	DefaultGameDurationSeconds    = 60
	DefaultDeactivateAfterSeconds = 30

	MinMaxPlayers          = 2
	MaxMaxPlayers          = 30
	MinGameDurationSeconds = 15
	MaxGameDurationSeconds = 180

	MinPlayersToStart = 2
)

// RoomKey addresses a room from the outside. It is generated once at
// creation and never reused for the lifetime of the process.
type RoomKey string

type RoomState int

const (
	StateWaiting RoomState = iota
	StatePlaying
)

func (s RoomState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StatePlaying:
		return "playing"
	}
	return fmt.Sprintf("RoomState(%d)", int(s))
}

type ParticipantStatus int

const (
	StatusWaiting ParticipantStatus = iota
	StatusReady
	StatusGuessed
)

func (s ParticipantStatus) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusReady:
		return "ready"
	case StatusGuessed:
		return "guessed"
	}
	return fmt.Sprintf("ParticipantStatus(%d)", int(s))
}

// RoomSettings are fixed when the room is created. Zero values mean
// "use the default".
type RoomSettings struct {
	MaxPlayers             int  `json:"maxPlayers"`
	GameDurationSeconds    int  `json:"gameDurationSeconds"`
	DisableHints           bool `json:"disableHints"`
	CustomWordsMode        bool `json:"customWords"`
	DeactivateAfterSeconds int  `json:"deactivateAfterSeconds"`
}

func DefaultSettings() RoomSettings {
	return RoomSettings{
		MaxPlayers:             DefaultMaxPlayers,
		GameDurationSeconds:    DefaultGameDurationSeconds,
		DeactivateAfterSeconds: DefaultDeactivateAfterSeconds,
	}
}

// WithDefaults fills every omitted field from DefaultSettings.
func (s RoomSettings) WithDefaults() RoomSettings {
	d := DefaultSettings()
	if s.MaxPlayers == 0 {
		s.MaxPlayers = d.MaxPlayers
	}
	if s.GameDurationSeconds == 0 {
		s.GameDurationSeconds = d.GameDurationSeconds
	}
	if s.DeactivateAfterSeconds == 0 {
		s.DeactivateAfterSeconds = d.DeactivateAfterSeconds
	}
	return s
}

// Validate checks the documented bounds. It is meant to be called by the
// request layer before a room is created.
func (s RoomSettings) Validate() error {
	if s.MaxPlayers < MinMaxPlayers || s.MaxPlayers > MaxMaxPlayers {
		return fmt.Errorf("maxPlayers must be between %d and %d, got %d",
			MinMaxPlayers, MaxMaxPlayers, s.MaxPlayers)
	}
	if s.GameDurationSeconds < MinGameDurationSeconds || s.GameDurationSeconds > MaxGameDurationSeconds {
		return fmt.Errorf("gameDurationSeconds must be between %d and %d, got %d",
			MinGameDurationSeconds, MaxGameDurationSeconds, s.GameDurationSeconds)
	}
	if s.DeactivateAfterSeconds < 0 {
		return fmt.Errorf("deactivateAfterSeconds must not be negative, got %d", s.DeactivateAfterSeconds)
	}
	return nil
}

func (s RoomSettings) GameDuration() time.Duration {
	return time.Duration(s.GameDurationSeconds) * time.Second
}

func (s RoomSettings) DeactivateAfter() time.Duration {
	return time.Duration(s.DeactivateAfterSeconds) * time.Second
}

// HiddenWord is the per-character reveal state of the target word.
// A zero rune marks a character that is still hidden.
type HiddenWord []rune

func (h HiddenWord) Clone() HiddenWord {
	if h == nil {
		return nil
	}
	out := make(HiddenWord, len(h))
	copy(out, h)
	return out
}

func (h HiddenWord) Revealed() int {
	n := 0
	for _, c := range h {
		if c != 0 {
			n++
		}
	}
	return n
}

func (h HiddenWord) HiddenIndexes() []int {
	idx := make([]int, 0, len(h))
	for i, c := range h {
		if c == 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// String renders hidden characters as underscores, for logs.
func (h HiddenWord) String() string {
	out := make([]rune, len(h))
	for i, c := range h {
		if c == 0 {
			out[i] = '_'
		} else {
			out[i] = c
		}
	}
	return string(out)
}

// MarshalJSON encodes the mask as an array of one-character strings with
// null for hidden positions.
func (h HiddenWord) MarshalJSON() ([]byte, error) {
	chars := make([]*string, len(h))
	for i, c := range h {
		if c == 0 {
			continue
		}
		s := string(c)
		chars[i] = &s
	}
	return json.Marshal(chars)
}

func (h *HiddenWord) UnmarshalJSON(data []byte) error {
	var chars []*string
	if err := json.Unmarshal(data, &chars); err != nil {
		return err
	}
	out := make(HiddenWord, len(chars))
	for i, c := range chars {
		if c == nil || *c == "" {
			continue
		}
		out[i] = []rune(*c)[0]
	}
	*h = out
	return nil
}
