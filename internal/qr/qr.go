// Package qr parses decoded QR payloads into deep-link targets. The
// scanning itself is an external capability that yields a string.
package qr

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidPayload is returned for payloads that are neither a bare
// part ID nor a location reference.
var ErrInvalidPayload = errors.New("invalid QR payload")

// Kind discriminates the two supported payload forms.
type Kind int

const (
	// KindPart is a bare integer payload: a part ID (legacy format).
	KindPart Kind = iota

	// KindLocation is an "<id>;<name>" payload: a storage location ID
	// with its display name.
	KindLocation
)

// Target is a parsed deep-link destination.
type Target struct {
	Kind Kind

	// ID is the part or location ID, depending on Kind.
	ID int

	// Name is the location display name; empty for part payloads.
	Name string
}

// Parse decodes a scanned payload. A bare integer is a part ID; an
// "<id>;<name>" pair is a location reference. Anything else fails with
// ErrInvalidPayload.
func Parse(payload string) (Target, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return Target{}, ErrInvalidPayload
	}

	if idStr, name, ok := strings.Cut(trimmed, ";"); ok {
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil {
			return Target{}, ErrInvalidPayload
		}
		return Target{
			Kind: KindLocation,
			ID:   id,
			Name: strings.TrimSpace(name),
		}, nil
	}

	id, err := strconv.Atoi(trimmed)
	if err != nil {
		return Target{}, ErrInvalidPayload
	}
	return Target{Kind: KindPart, ID: id}, nil
}
