package game

import (
	"context"
	"time"

	"github.com/scythe504/guessit-backend/internal"
)

// =============================================================================
// ROUND FLOW
// =============================================================================

// startRound enters PLAYING and picks the target word. The round is only
// announced once the image lookup has finished, see applyImages.
func (r *Room) startRound() {
	r.state = internal.StatePlaying
	r.generation++

	var custom []string
	if r.settings.CustomWordsMode {
		custom = r.customWords
	}
	target, hidden := r.words.RandomWord(custom)
	r.round = round{target: target, hidden: hidden}

	r.recorder.RoundStarted()
	r.log.Info().Uint64("generation", r.generation).Str("hiddenWord", hidden.String()).
		Msg("[startRound] round started")

	go r.fetchImages(r.generation, target)
}

// fetchImages runs without the room lock. A failed lookup still starts
// the round, with no images.
func (r *Room) fetchImages(gen uint64, keyword string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.imageTimeout)
	defer cancel()

	urls, err := r.images.ImageURLs(ctx, keyword)
	if err != nil {
		r.log.Warn().Err(err).Msg("[fetchImages] image lookup failed, starting without images")
		urls = []string{}
	}
	if len(urls) > maxImageURLs {
		urls = urls[:maxImageURLs]
	}
	if urls == nil {
		urls = []string{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyImages(gen, urls)
}

// applyImages announces the round and arms its timers, unless the round
// it was fetched for is gone.
func (r *Room) applyImages(gen uint64, urls []string) {
	if r.destroyed || r.generation != gen || r.state != internal.StatePlaying {
		r.log.Debug().Uint64("generation", gen).Msg("[applyImages] discarding stale image result")
		return
	}

	if !r.settings.DisableHints {
		r.scheduleHint()
	}
	r.broadcast(internal.EventGameStarted, internal.GameStartedPayload{
		HiddenWord: r.round.hidden.Clone(),
		ImageURLs:  urls,
	})
	r.round.endTimer = r.scheduleRound(r.settings.GameDuration(), func() {
		r.endRound("timeout")
	})
}

// hintInterval spreads roughly half of the word's letters over the round.
func (r *Room) hintInterval() time.Duration {
	n := len([]rune(r.round.target))
	if n < 2 {
		return r.settings.GameDuration()
	}
	return r.settings.GameDuration() * 2 / time.Duration(n)
}

func (r *Room) scheduleHint() {
	r.round.hintTimer = r.scheduleRound(r.hintInterval(), r.revealHint)
}

// revealHint uncovers one character and re-arms itself while anything is
// still hidden.
func (r *Room) revealHint() {
	r.round.hintTimer = nil
	if len(r.round.hidden.HiddenIndexes()) == 0 {
		return
	}

	r.round.hidden = r.words.Hint(r.round.target, r.round.hidden)
	r.broadcast(internal.EventLetterRevealed, internal.LetterRevealedPayload{
		HiddenWord: r.round.hidden.Clone(),
	})

	if len(r.round.hidden.HiddenIndexes()) > 0 {
		r.scheduleHint()
	}
}

// endRound reveals the word and returns everybody to the lobby.
func (r *Room) endRound(reason string) {
	stopTimer(&r.round.hintTimer)
	stopTimer(&r.round.endTimer)

	r.broadcast(internal.EventGameEnded, internal.GameEndedPayload{RevealedWord: r.round.target})

	r.state = internal.StateWaiting
	r.generation++
	r.round = round{}
	r.participants.ResetStatus()

	r.recorder.RoundEnded(reason)
	r.log.Info().Str("reason", reason).Msg("[endRound] round ended")
}
