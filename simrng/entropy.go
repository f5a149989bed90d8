package simrng

import (
	"crypto/rand"
	"encoding/binary"
)

// entropySeed draws a seed from the OS entropy source. It is only used by
// NewFromEntropy and never shared across instances.
func entropySeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failure is a programmer/environment error: there is
		// no sane fallback value that preserves the independent-streams
		// contract, so panic loudly rather than silently reusing a seed.
		panic("simrng: failed to read OS entropy: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
