package pool

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/zeebo/blake3"
)

// CheckSum returns a 16 byte blake3 fingerprint of the pool's numeric
// content as a hex string. Pools built from the same rows hash
// identically, which makes the sum usable for cache validation across
// runs.
func (p *Pool) CheckSum() string {
	hasher := blake3.New()
	var buf [8]byte

	writeFloat32 := func(v float32) {
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(v))
		_, _ = hasher.Write(buf[:4])
	}
	writeFloat64 := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(v))
		_, _ = hasher.Write(buf[:8])
	}
	writeUint64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:8], v)
		_, _ = hasher.Write(buf[:8])
	}

	writeUint64(uint64(p.Docs.DocCount()))
	for _, row := range p.Docs.Factors {
		for _, v := range row {
			writeFloat32(v)
		}
	}
	for _, v := range p.Docs.Target {
		writeFloat32(v)
	}
	for _, v := range p.Docs.Weight {
		writeFloat32(v)
	}
	for _, row := range p.Docs.Baseline {
		for _, v := range row {
			writeFloat64(v)
		}
	}
	for _, v := range p.Docs.Timestamp {
		writeUint64(v)
	}
	for _, pair := range p.Pairs {
		writeUint64(uint64(pair.WinnerID))
		writeUint64(uint64(pair.LoserID))
		writeFloat32(pair.Weight)
	}

	var out [16]byte
	_, _ = hasher.Digest().Read(out[:])
	return fmt.Sprintf("%x", out)
}
