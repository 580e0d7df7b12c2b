package words

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/scythe504/guessit-backend/internal"
)

// shownCharacters are revealed in every fresh mask.
const shownCharacters = " -_&"

// =============================================================================
// NORMALIZATION
// =============================================================================

// Normalize decodes %20, trims surrounding whitespace and upper-cases.
// Guesses, custom words and the word pool all go through it so that
// equality is a plain string comparison.
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, "%20", " ")
	return strings.ToUpper(strings.TrimSpace(s))
}

// Mask hides every character except the ones in shownCharacters.
func Mask(word string) internal.HiddenWord {
	runes := []rune(word)
	hidden := make(internal.HiddenWord, len(runes))
	for i, c := range runes {
		if strings.ContainsRune(shownCharacters, c) {
			hidden[i] = c
		}
	}
	return hidden
}

// =============================================================================
// PROVIDER
// =============================================================================

// Provider picks target words and produces hints. It is safe for concurrent
// use; the pool is never modified after construction.
type Provider struct {
	pool []string
}

func NewProvider(pool []string) (*Provider, error) {
	normalized := make([]string, 0, len(pool))
	for _, w := range pool {
		if w = Normalize(w); w != "" && !slices.Contains(normalized, w) {
			normalized = append(normalized, w)
		}
	}
	if len(normalized) == 0 {
		return nil, ErrEmptyPool
	}
	return &Provider{pool: normalized}, nil
}

func (p *Provider) Size() int {
	return len(p.pool)
}

// RandomWord picks from custom when it is non-empty, otherwise from the
// default pool, and returns the word together with its initial mask.
func (p *Provider) RandomWord(custom []string) (string, internal.HiddenWord) {
	source := p.pool
	if len(custom) > 0 {
		source = custom
	}
	word := source[rand.IntN(len(source))]
	return word, Mask(word)
}

// Hint reveals one random hidden character of word. The input mask is
// left untouched; a fully revealed mask comes back as an unchanged copy.
func (p *Provider) Hint(word string, hidden internal.HiddenWord) internal.HiddenWord {
	next := hidden.Clone()
	idx := next.HiddenIndexes()
	if len(idx) == 0 {
		return next
	}
	runes := []rune(word)
	i := idx[rand.IntN(len(idx))]
	next[i] = runes[i]
	return next
}

// Match compares a raw guess against the target and returns the
// normalized guess alongside the result.
func (p *Provider) Match(guess, word string) (string, bool) {
	normalized := Normalize(guess)
	return normalized, normalized == word
}

func (p *Provider) Normalize(raw string) string {
	return Normalize(raw)
}

func (p *Provider) Contains(list []string, word string) bool {
	return slices.Contains(list, word)
}
