// Package dhash provides the single deterministic-hash implementation
// shared by campaign spread (C4) and load-balancer jitter (C10), so the
// determinism requirement (spec invariant 6 — reruns on identical
// inputs produce identical output) has one implementation rather than
// two ad hoc ones. It wraps hash/fnv.New64a the same way the teacher's
// pkg/distlock derives deterministic lock ids from string keys.
package dhash

import "hash/fnv"

// Mod hashes the concatenation of parts and returns the result modulo
// n. n must be > 0.
func Mod(n uint64, parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0}) // separator so ("ab","c") != ("a","bc")
	}
	return h.Sum64() % n
}
