package lookup

import "errors"

var (
	// ErrServiceLoading is returned by Search while a dictionary import is
	// in progress.
	ErrServiceLoading = errors.New("lookup: service is loading")

	// ErrDictionaryNotFound is returned by admin operations referencing an
	// unknown dictionary id.
	ErrDictionaryNotFound = errors.New("lookup: dictionary not found")

	// ErrInvalidZip is returned when an imported archive carries no
	// index.json or otherwise fails the loader contract.
	ErrInvalidZip = errors.New("lookup: invalid dictionary archive")

	// ErrReorderIncomplete is returned when a Reorder call's id list omits
	// one or more currently-registered dictionaries.
	ErrReorderIncomplete = errors.New("lookup: reorder must list every dictionary")
)
