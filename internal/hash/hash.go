// Package hash derives deterministic, fixed-shape fingerprints for
// downloaded content. The same payload always produces the same string,
// and different payloads collide only with SHA-1's negligible
// probability — unlike the salted built-in hash the system this was
// ported from relied on, which is not stable across process restarts.
package hash

import "github.com/google/uuid"

// namespace scopes every fingerprint this package produces so it never
// collides with a uuid.NewSHA1 call made for an unrelated purpose
// elsewhere in the program.
var namespace = uuid.MustParse("6ba7b813-9dad-11d1-80b4-00c04fd430c8")

// Sum returns a deterministic UUID-shaped fingerprint of payload.
func Sum(payload []byte) string {
	return uuid.NewSHA1(namespace, payload).String()
}

// SumString is a convenience wrapper for text payloads.
func SumString(payload string) string {
	return Sum([]byte(payload))
}
