package internal

import (
	"encoding/json"
	"strconv"
)

// Message is the envelope for every frame on the participant socket, in
// both directions.
type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

type Event string

// Outbound events.
const (
	EventClientID           Event = "client.id"
	EventGameDataReceived   Event = "game.data.received"
	EventParticipantJoined  Event = "participant.joined"
	EventParticipantLeft    Event = "participant.left"
	EventParticipantReady   Event = "participant.ready"
	EventParticipantGuessed Event = "participant.guessed"
	EventGameStarted        Event = "game.started"
	EventLetterRevealed     Event = "letter.revealed"
	EventGuessSubmitted     Event = "guess.submitted"
	EventGameEnded          Event = "game.ended"
	EventWordAdded          Event = "word.added"
	EventConnectionError    Event = "connection.error"
	EventActionResult       Event = "action.result"
	EventActionError        Event = "action.error"
)

// Inbound socket actions.
const (
	ActionReady   = "ready"
	ActionGuess   = "guess"
	ActionAddWord = "add_word"
)

type ClientIDPayload struct {
	ID string `json:"id"`
}

type ParticipantSummary struct {
	Username string `json:"username"`
	IsReady  bool   `json:"isReady"`
}

// CustomWordsInfo is encoded as false when custom words mode is off and as
// the current word count otherwise.
type CustomWordsInfo struct {
	Enabled bool
	Count   int
}

func (c CustomWordsInfo) MarshalJSON() ([]byte, error) {
	if !c.Enabled {
		return []byte("false"), nil
	}
	return []byte(strconv.Itoa(c.Count)), nil
}

func (c *CustomWordsInfo) UnmarshalJSON(data []byte) error {
	if string(data) == "false" {
		*c = CustomWordsInfo{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = CustomWordsInfo{Enabled: true, Count: n}
	return nil
}

type GameDataReceivedPayload struct {
	ID                  string               `json:"id"`
	Username            string               `json:"username"`
	MaxPlayers          int                  `json:"maxPlayers"`
	GameDurationSeconds int                  `json:"gameDurationSeconds"`
	HintsEnabled        bool                 `json:"hintsEnabled"`
	CustomWords         CustomWordsInfo      `json:"customWords"`
	Participants        []ParticipantSummary `json:"participants"`
}

// UsernamePayload is shared by the joined/left/ready/guessed events.
type UsernamePayload struct {
	Username string `json:"username"`
}

type GameStartedPayload struct {
	HiddenWord HiddenWord `json:"hiddenWord"`
	ImageURLs  []string   `json:"imageUrls"`
}

type LetterRevealedPayload struct {
	HiddenWord HiddenWord `json:"hiddenWord"`
}

type GuessSubmittedPayload struct {
	Username string `json:"username"`
	Guess    string `json:"guess"`
}

type GameEndedPayload struct {
	RevealedWord string `json:"revealedWord"`
}

type WordAddedPayload struct {
	WordCount int `json:"wordCount"`
}

type ConnectionErrorReason string

const (
	ReasonKeyNotProvided ConnectionErrorReason = "KEY_NOT_PROVIDED"
	ReasonWrongKey       ConnectionErrorReason = "WRONG_KEY"
	ReasonGameInProgress ConnectionErrorReason = "GAME_IN_PROGRESS"
	ReasonRoomIsFull     ConnectionErrorReason = "ROOM_IS_FULL"
)

type ConnectionErrorPayload struct {
	Reason ConnectionErrorReason `json:"reason"`
}

type ActionResultPayload struct {
	Action    string `json:"action"`
	IsCorrect *bool  `json:"isCorrect,omitempty"`
}

type ActionErrorPayload struct {
	Action string `json:"action"`
	Error  string `json:"error"`
}

type GuessData struct {
	Guess string `json:"guess"`
}

type AddWordData struct {
	Word string `json:"word"`
}
