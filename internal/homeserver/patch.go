package homeserver

import (
	"fmt"

	"github.com/synapse-tools/synapse-reg/internal/platform"
)

// Top-level keys that open registration on a Synapse homeserver.
const (
	KeyEnableRegistration                    = "enable_registration"
	KeyEnableRegistrationWithoutVerification = "enable_registration_without_verification"
)

// RegistrationFlags lists the keys ApplyRegistrationFlags sets, in the order
// they are appended when missing.
var RegistrationFlags = []string{
	KeyEnableRegistration,
	KeyEnableRegistrationWithoutVerification,
}

// defaultPerm applies only when the config file does not exist at save time.
const defaultPerm = 0o644

// Options controls Patch.
type Options struct {
	// DryRun renders the patched document without writing it.
	DryRun bool
}

// Result describes a completed Patch.
type Result struct {
	Path string
	// Changed is false when both flags were already boolean true. The file
	// is rewritten either way.
	Changed bool
	// Rendered is the patched document as written (or, on a dry run, as it
	// would have been written).
	Rendered []byte
}

// ApplyRegistrationFlags sets every key in RegistrationFlags to true at the
// top level of doc, whatever its previous value. It reports whether any
// value differed from boolean true beforehand.
func ApplyRegistrationFlags(doc *Document) bool {
	changed := false
	for _, key := range RegistrationFlags {
		if v, ok := doc.Bool(key); !ok || !v {
			changed = true
		}
		doc.SetBool(key, true)
	}
	return changed
}

// Save renders doc and atomically replaces the file at path with it. Errors
// wrap ErrWrite; on failure the existing file is left as it was.
func Save(doc *Document, path string) error {
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	return write(path, data)
}

// Patch loads the config at path, enables registration, and writes it back.
func Patch(path string, opts Options) (*Result, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	changed := ApplyRegistrationFlags(doc)

	data, err := doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}

	result := &Result{Path: path, Changed: changed, Rendered: data}
	if opts.DryRun {
		return result, nil
	}
	if err := write(path, data); err != nil {
		return nil, err
	}
	return result, nil
}

// EnableRegistration patches the config at path and writes it back.
func EnableRegistration(path string) (*Result, error) {
	return Patch(path, Options{})
}

// Preview returns the config at path as EnableRegistration would write it,
// without touching the file.
func Preview(path string) ([]byte, error) {
	result, err := Patch(path, Options{DryRun: true})
	if err != nil {
		return nil, err
	}
	return result.Rendered, nil
}

func write(path string, data []byte) error {
	if err := platform.WriteFileAtomic(path, data, defaultPerm); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	return nil
}
