// Package idgen produces sortable identifiers for generated fixtures.
//
// An identifier is the Unix millisecond timestamp as 13 upper-case hex
// digits followed by 16 upper-case hex digits of randomness. Identifiers
// sort lexicographically in creation order at millisecond resolution.
// Collisions are not checked.
package idgen

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	timestampLen = 13
	entropyLen   = 16

	// Len is the length of every identifier produced by Sortable.
	Len = timestampLen + entropyLen
)

// Sortable is a timestamp-prefixed identifier source. Both fields may be
// replaced in tests.
type Sortable struct {
	Now     func() time.Time
	Entropy func() string
}

// New returns a Sortable backed by the wall clock and random UUIDs.
func New() *Sortable {
	return &Sortable{Now: time.Now, Entropy: uuidEntropy}
}

// NewID returns a new identifier.
func (s *Sortable) NewID() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	entropy := uuidEntropy
	if s.Entropy != nil {
		entropy = s.Entropy
	}

	ms := now().UnixMilli()
	suffix := strings.ToUpper(entropy())
	if len(suffix) > entropyLen {
		suffix = suffix[:entropyLen]
	} else if len(suffix) < entropyLen {
		suffix += strings.Repeat("0", entropyLen-len(suffix))
	}
	return fmt.Sprintf("%0*X%s", timestampLen, ms, suffix)
}

// uuidEntropy returns the hex digits of a random UUID.
func uuidEntropy() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Timestamp recovers the creation time encoded in id.
func Timestamp(id string) (time.Time, error) {
	if len(id) < timestampLen {
		return time.Time{}, fmt.Errorf("identifier %q is too short", id)
	}
	ms, err := strconv.ParseInt(id[:timestampLen], 16, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("identifier %q has no timestamp prefix: %w", id, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// Sequence hands out Prefix followed by a zero-padded counter. It is the
// deterministic source used by tests and dry runs.
type Sequence struct {
	Prefix string
	Width  int
	next   int
}

// NewID returns the next identifier in the sequence.
func (s *Sequence) NewID() string {
	s.next++
	width := s.Width
	if width == 0 {
		width = 6
	}
	return fmt.Sprintf("%s%0*d", s.Prefix, width, s.next)
}
