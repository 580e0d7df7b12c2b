package words

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

const (
	MinCustomWordLength = 2
	MaxCustomWordLength = 50
)

var ErrInvalidWord = errors.New("invalid word")

// Filter decides whether a custom word is acceptable beyond the shape
// checks in ValidateCustomWord.
type Filter interface {
	Allow(word string) bool
}

// AllowAll is the default Filter.
type AllowAll struct{}

func (AllowAll) Allow(string) bool { return true }

// ValidateCustomWord checks a normalized custom word: length bounds and
// latin letters, spaces and hyphens only.
func ValidateCustomWord(word string, filter Filter) error {
	n := utf8.RuneCountInString(word)
	if n < MinCustomWordLength || n > MaxCustomWordLength {
		return fmt.Errorf("%w: length must be between %d and %d", ErrInvalidWord, MinCustomWordLength, MaxCustomWordLength)
	}
	for _, c := range word {
		if c == ' ' || c == '-' {
			continue
		}
		if c > unicode.MaxASCII || !unicode.IsLetter(c) {
			return fmt.Errorf("%w: unexpected character %q", ErrInvalidWord, c)
		}
	}
	if filter != nil && !filter.Allow(word) {
		return fmt.Errorf("%w: rejected by filter", ErrInvalidWord)
	}
	return nil
}
