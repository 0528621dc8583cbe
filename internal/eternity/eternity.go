// Package eternity holds what the Eternity Engine file formats share: the
// 256-byte magic slot, the fixed 0x400 body offset and the error taxonomy
// returned by the format packages.
package eternity

import (
	"errors"
	"fmt"
	"strings"

	"eternity-assets/internal/binio"
)

const (
	// MagicSize is the width of the NUL-padded magic string slot.
	MagicSize = 256
	// NameSize is the width of every fixed name slot.
	NameSize = 256
	// HeaderSize is the fixed offset where every file body starts.
	HeaderSize = 0x400
)

const (
	MeshMagic = "Eternity Engine Mesh File"
	SkinMagic = "Eternity Engine Skin File"
	AniMagic  = "Eternity Engine Ani File"
)

var (
	ErrInvalidMagic           = errors.New("invalid magic")
	ErrUnsupportedVersion     = errors.New("unsupported version")
	ErrUnknownPropertyType    = errors.New("unknown property type")
	ErrMalformedFragmentOrder = errors.New("malformed fragment order")
	ErrUnknownCollisionType   = errors.New("unknown collision type")

	// ErrUnresolvedBone marks warnings, never decode failures.
	ErrUnresolvedBone = errors.New("unresolved bone reference")
)

// ReadMagic reads the magic slot and checks it starts with prefix.
func ReadMagic(r *binio.Reader, prefix string) (string, error) {
	magic := r.FixedString(MagicSize)
	if err := r.Err(); err != nil {
		return "", err
	}
	if !strings.HasPrefix(magic, prefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMagic, magic)
	}
	return magic, nil
}

// WriteMagic writes magic, or prefix followed by a sub-version when magic is
// empty.
func WriteMagic(w *binio.Writer, magic, prefix, subVersion string) {
	if magic == "" {
		magic = prefix + " " + subVersion
	}
	w.FixedString(magic, MagicSize)
}

// CheckVersion fails with ErrUnsupportedVersion outside [lo, hi].
func CheckVersion(version int32, lo, hi int32) error {
	if version < lo || version > hi {
		return fmt.Errorf("%w: %d (supported %d-%d)", ErrUnsupportedVersion, version, lo, hi)
	}
	return nil
}
