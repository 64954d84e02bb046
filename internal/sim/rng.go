package sim

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource is the explicitly threaded random stream every stochastic
// call consumes. Tests substitute scripted sources.
type RandomSource interface {
	Float64() float64 // [0, 1)
}

// cryptoRNG backs ad-hoc single draws where reproducibility does not matter.
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

// DefaultRNG returns a non-reproducible source.
func DefaultRNG() RandomSource { return cryptoRNG{} }

type seededRNG struct{ r *rand.Rand }

// NewSeededRNG returns a reproducible PCG-backed source.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

// NewStream returns a reproducible source on an independent stream, for
// parallel fan-out: the same seed with distinct stream values yields
// uncorrelated sequences.
func NewStream(seed, stream uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, stream))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }
