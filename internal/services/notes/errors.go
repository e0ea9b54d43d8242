package notes

import "errors"

// ErrNoteNotFound is returned when no note has the requested id.
var ErrNoteNotFound = errors.New("note not found")

// Input errors, all mapped to 400 by the handlers.
var (
	ErrMissingTitle    = errors.New("note title is missing")
	ErrInvalidFolderID = errors.New("folder id is invalid")
	ErrInvalidTagID    = errors.New("tag id is invalid")
	ErrUnknownFolder   = errors.New("folder does not exist")
	ErrUnknownTag      = errors.New("tag does not exist")
)

// ErrListNotes is returned when notes listing fails.
var ErrListNotes = errors.New("failed to list notes")

// ErrGetNote is returned when a note lookup fails.
var ErrGetNote = errors.New("failed to get note")

// ErrCreateNote is returned when note creation fails.
var ErrCreateNote = errors.New("failed to create note")

// ErrUpdateNote is returned when note update fails.
var ErrUpdateNote = errors.New("failed to update note")

// ErrDeleteNote is returned when note deletion fails.
var ErrDeleteNote = errors.New("failed to delete note")
