package tags

import "errors"

// ErrTagNotFound is returned when no tag has the requested id.
var ErrTagNotFound = errors.New("tag not found")

// ErrDuplicateName is returned when another tag already uses the name.
var ErrDuplicateName = errors.New("tag name already exists")

// ErrMissingName is returned when the name is empty after sanitising.
var ErrMissingName = errors.New("tag name is missing")

var (
	ErrListTags  = errors.New("failed to list tags")
	ErrGetTag    = errors.New("failed to get tag")
	ErrCreateTag = errors.New("failed to create tag")
	ErrUpdateTag = errors.New("failed to update tag")
	ErrDeleteTag = errors.New("failed to delete tag")
)
