package scene

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/AlexGameTester/2016-solar-project/internal/core/physics"
)

// Fingerprint hashes every body's kind, colour and the exact bit patterns of
// its mass, position, velocity and radius, in scene order. Differing
// fingerprints mean differing states; equal ones mean identical states only
// with overwhelming probability.
func Fingerprint(s physics.Scene) uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	for _, b := range s {
		_, _ = d.Write([]byte{byte(b.Kind)})
		put(b.Mass)
		put(b.X)
		put(b.Y)
		put(b.Vx)
		put(b.Vy)
		put(b.Radius)
		_, _ = d.WriteString(b.Color)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
