package homeserver

import "errors"

// Error kinds returned by Load, Parse, and Save. Test for them with
// errors.Is; a missing file is reported as fs.ErrNotExist.
var (
	// ErrParse indicates the file is not a single well-formed YAML document
	// with a mapping at the top level.
	ErrParse = errors.New("malformed homeserver config")
	// ErrNotMapping indicates the document parsed but its root is empty or
	// not a mapping. Always reported together with ErrParse.
	ErrNotMapping = errors.New("top-level value is not a mapping")
	// ErrWrite indicates the patched document could not be written back.
	ErrWrite = errors.New("writing homeserver config")
)
