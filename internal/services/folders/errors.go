package folders

import "errors"

// ErrFolderNotFound is returned when no folder has the requested id.
var ErrFolderNotFound = errors.New("folder not found")

// ErrDuplicateName is returned when another folder already uses the name.
var ErrDuplicateName = errors.New("folder name already exists")

// ErrMissingName is returned when the name is empty after sanitising.
var ErrMissingName = errors.New("folder name is missing")

var (
	ErrListFolders  = errors.New("failed to list folders")
	ErrGetFolder    = errors.New("failed to get folder")
	ErrCreateFolder = errors.New("failed to create folder")
	ErrUpdateFolder = errors.New("failed to update folder")
	ErrDeleteFolder = errors.New("failed to delete folder")
)
