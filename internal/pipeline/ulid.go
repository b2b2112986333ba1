package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: a 48-bit millisecond timestamp followed by 80 bits of
// entropy, Crockford base32 encoded into 26 characters. The first 16
// entropy bits carry a per-process sequence so IDs minted in the same
// millisecond still sort in creation order.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var idGen struct {
	mu     sync.Mutex
	lastMS uint64
	seq    uint16
}

func newJobID() string {
	return newJobIDAt(time.Now())
}

func newJobIDAt(now time.Time) string {
	ms := uint64(now.UnixMilli())

	idGen.mu.Lock()
	if ms == idGen.lastMS {
		idGen.seq++
	} else {
		idGen.lastMS = ms
		idGen.seq = 0
	}
	seq := idGen.seq
	idGen.mu.Unlock()

	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], ms<<16)
	binary.BigEndian.PutUint16(b[6:8], seq)
	_, _ = rand.Read(b[8:])
	return encodeCrockford(b)
}

// encodeCrockford writes the 128-bit value five bits at a time from the
// least significant end; the leading character carries the top 3 bits.
func encodeCrockford(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[:8])
	lo := binary.BigEndian.Uint64(b[8:])

	var out [26]byte
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
