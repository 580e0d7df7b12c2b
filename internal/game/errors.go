package game

import "errors"

// Errors returned by room operations. The request layer maps each of them
// to a documented status code with errors.Is.
var (
	ErrWrongKey           = errors.New("room key is incorrect")
	ErrWrongID            = errors.New("not a participant of the room")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameNotStarted     = errors.New("game has not started yet")
	ErrAlreadyGuessed     = errors.New("word already guessed")
	ErrNotCustomMode      = errors.New("game mode is not custom words")
	ErrDuplicateWord      = errors.New("custom word already exists")

	// Join-time rejections.
	ErrGameInProgress = errors.New("game in progress")
	ErrRoomFull       = errors.New("room is full")
)
