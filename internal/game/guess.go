package game

import (
	"github.com/scythe504/guessit-backend/internal"
)

// =============================================================================
// GUESSING
// =============================================================================

// Guess checks a guess against the current word. A correct guess is only
// announced by username; a wrong one is echoed to the whole room.
func (r *Room) Guess(id, raw string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return false, ErrWrongKey
	}
	i, ok := r.participants.Find(id)
	if !ok {
		return false, ErrWrongID
	}
	if r.state != internal.StatePlaying {
		return false, ErrGameNotStarted
	}
	p := r.participants[i]
	if p.Status == internal.StatusGuessed {
		return false, ErrAlreadyGuessed
	}

	guess, correct := r.words.Match(raw, r.round.target)
	if !correct {
		r.broadcast(internal.EventGuessSubmitted, internal.GuessSubmittedPayload{
			Username: p.Username,
			Guess:    guess,
		})
		return false, nil
	}

	r.participants[i] = p.WithStatus(internal.StatusGuessed)
	r.broadcast(internal.EventParticipantGuessed, internal.UsernamePayload{Username: p.Username})
	r.log.Info().Str("participant", id).Msg("[Guess] word guessed")

	if r.participants.AllGuessed() {
		r.endRound("all_guessed")
	}
	return true, nil
}
