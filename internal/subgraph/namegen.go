package subgraph

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// NameGenerator produces the unique job name for one extraction call.
type NameGenerator func() string

// TimestampName generates "<wall-clock second>_<random integer>", the
// naming shape the engine's tooling expects for ad-hoc graphs. The random
// part is 63 bits of crypto/rand, so collisions between concurrent
// extractions are negligible, but global uniqueness is not guaranteed;
// callers needing that inject their own generator.
func TimestampName() string {
	return fmt.Sprintf("%s_%d", time.Now().Format("20060102150405"), randomUint63())
}

func randomUint63() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; a
		// nanosecond clock read keeps names distinct enough here.
		return uint64(time.Now().UnixNano())
	}
	return binary.BigEndian.Uint64(b[:]) >> 1
}
