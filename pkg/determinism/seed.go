// Package determinism derives reproducible run seeds and fingerprints
// simulation results so that two executions can be compared byte for byte.
package determinism

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// RunSeed derives the seed for run index from base.
// Distinct indexes give distinct, stable seeds for the same base.
func RunSeed(base int64, index int) int64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(base))
	binary.LittleEndian.PutUint64(buf[8:], uint64(index))
	return int64(xxhash.Sum64(buf[:]) &^ (1 << 63))
}

// Record is one canonicalized run result. Values are written in the order given.
type Record struct {
	Label  string
	Values []int64
}

// CanonicalLine returns a stable ASCII representation of r for hashing
func CanonicalLine(r Record) []byte {
	var b strings.Builder
	b.WriteString(r.Label)
	for _, v := range r.Values {
		b.WriteByte('|')
		b.WriteString(strconv.FormatInt(v, 10))
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// Fingerprint hashes records in order. Reordering records changes the result.
func Fingerprint(records []Record) uint64 {
	d := xxhash.New()
	for _, r := range records {
		_, _ = d.Write(CanonicalLine(r))
	}
	return d.Sum64()
}
