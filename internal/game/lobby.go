package game

import (
	"github.com/scythe504/guessit-backend/internal"
)

// =============================================================================
// LOBBY MANAGEMENT
// =============================================================================

// SetReady marks a participant ready and starts a round once everybody is.
func (r *Room) SetReady(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return ErrWrongKey
	}
	i, ok := r.participants.Find(id)
	if !ok {
		return ErrWrongID
	}
	if r.state != internal.StateWaiting {
		return ErrGameAlreadyStarted
	}

	r.participants[i] = r.participants[i].WithStatus(internal.StatusReady)
	r.broadcast(internal.EventParticipantReady, internal.UsernamePayload{Username: r.participants[i].Username})
	r.log.Debug().Str("participant", id).Msg("[SetReady] participant ready")

	r.startIfReady()
	return nil
}

// AddCustomWord appends a word to the room's own list. It is allowed in
// either state; the list is only read when a round starts.
func (r *Room) AddCustomWord(id, raw string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return ErrWrongKey
	}
	if _, ok := r.participants.Find(id); !ok {
		return ErrWrongID
	}
	if !r.settings.CustomWordsMode {
		return ErrNotCustomMode
	}

	word := r.words.Normalize(raw)
	if r.words.Contains(r.customWords, word) {
		return ErrDuplicateWord
	}
	r.customWords = append(r.customWords, word)

	r.broadcast(internal.EventWordAdded, internal.WordAddedPayload{WordCount: len(r.customWords)})
	r.log.Debug().Int("wordCount", len(r.customWords)).Msg("[AddCustomWord] custom word added")

	r.startIfReady()
	return nil
}

// startIfReady starts a round when the room is waiting, every participant
// is ready and, in custom words mode, at least one word was submitted.
func (r *Room) startIfReady() {
	if r.state != internal.StateWaiting || !r.participants.AllReady() {
		return
	}
	if r.settings.CustomWordsMode && len(r.customWords) == 0 {
		r.log.Debug().Msg("[startIfReady] waiting for custom words")
		return
	}
	r.startRound()
}
