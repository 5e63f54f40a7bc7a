package sampling

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"

	"github.com/pkg/errors"
)

// RandomSource is the only randomness the samplers consume.
type RandomSource interface {
	// Uniform returns a draw in [0, 1).
	Uniform() float64
	// StdNormal returns a draw from N(0, 1).
	StdNormal() float64
}

// Stream is a seeded PCG generator. A Stream is not safe for concurrent use;
// give every goroutine its own via Derive.
type Stream struct {
	seed uint64
	rng  *rand.Rand
}

// NewStream returns a stream that replays the same draws for the same seed.
func NewStream(seed uint64) *Stream {
	return &Stream{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, mix(seed^0x9e3779b97f4a7c15))),
	}
}

// NewSeed reads a fresh seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, errors.Wrap(err, "read random seed")
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func (s *Stream) Seed() uint64 { return s.seed }

func (s *Stream) Uniform() float64 { return s.rng.Float64() }

func (s *Stream) StdNormal() float64 { return s.rng.NormFloat64() }

// IntN returns a uniform integer in [0, n).
func (s *Stream) IntN(n int) int { return s.rng.IntN(n) }

// Derive returns the sub-stream for (level, index). It depends only on the
// root seed and the pair, never on how many draws s has already made, so work
// split across goroutines replays identically for a fixed seed.
func (s *Stream) Derive(level, index int) *Stream {
	hi := mix(s.seed + uint64(level)*0x9e3779b97f4a7c15)
	lo := mix(uint64(index) ^ mix(s.seed^uint64(level)<<32))
	return &Stream{
		seed: hi ^ lo,
		rng:  rand.New(rand.NewPCG(hi, lo)),
	}
}

// mix is the splitmix64 finalizer.
func mix(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
