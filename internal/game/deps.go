package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/guessit-backend/internal"
)

const (
	DefaultImageTimeout = 10 * time.Second
	maxImageURLs        = 5
)

// WordProvider supplies target words and hint reveals.
type WordProvider interface {
	RandomWord(custom []string) (string, internal.HiddenWord)
	Hint(word string, hidden internal.HiddenWord) internal.HiddenWord
	Match(guess, word string) (string, bool)
	Normalize(raw string) string
	Contains(list []string, word string) bool
}

// ImageProvider returns illustrative image URLs for a keyword. Failures
// are tolerated by the caller.
type ImageProvider interface {
	ImageURLs(ctx context.Context, keyword string) ([]string, error)
}

// Recorder observes room and round lifecycle. Implementations must be safe
// for concurrent use.
type Recorder interface {
	RoomCreated()
	RoomDestroyed()
	RoundStarted()
	RoundEnded(reason string)
}

type nopRecorder struct{}

func (nopRecorder) RoomCreated()      {}
func (nopRecorder) RoomDestroyed()    {}
func (nopRecorder) RoundStarted()     {}
func (nopRecorder) RoundEnded(string) {}

type noImages struct{}

func (noImages) ImageURLs(context.Context, string) ([]string, error) { return []string{}, nil }

// Deps are shared by every room of a Registry. Words is required; the rest
// fall back to inert defaults.
type Deps struct {
	Words        WordProvider
	Images       ImageProvider
	Scheduler    Scheduler
	Recorder     Recorder
	ImageTimeout time.Duration
	Logger       *zerolog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Words == nil {
		panic("game: Deps.Words is required")
	}
	if d.Images == nil {
		d.Images = noImages{}
	}
	if d.Scheduler == nil {
		d.Scheduler = RealScheduler{}
	}
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	if d.ImageTimeout <= 0 {
		d.ImageTimeout = DefaultImageTimeout
	}
	if d.Logger == nil {
		d.Logger = &log.Logger
	}
	return d
}
