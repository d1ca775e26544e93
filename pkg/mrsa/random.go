package mrsa

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
)

// RandomSource is the only external boundary of key generation. Uint64N must
// be uniform over [0, bound) and panics if bound is 0.
type RandomSource interface {
	Uint32() uint32
	Uint64N(bound uint64) uint64
}

// cryptoReader adapts crypto/rand to a math/rand/v2 Source.
type cryptoReader struct{}

func (cryptoReader) Uint64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("mrsa: crypto/rand failed: " + err.Error())
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// CryptoSource draws from the operating system CSPRNG. The zero value is ready
// to use and safe for concurrent use.
type CryptoSource struct{}

var cryptoRand = mrand.New(cryptoReader{})

func (CryptoSource) Uint32() uint32 { return cryptoRand.Uint32() }

func (CryptoSource) Uint64N(bound uint64) uint64 { return cryptoRand.Uint64N(bound) }

// SeededSource is a reproducible ChaCha8 stream for tests and fixtures. It
// must never back a real key.
type SeededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a SeededSource keyed by seed.
func NewSeededSource(seed [32]byte) *SeededSource {
	return &SeededSource{rng: mrand.New(mrand.NewChaCha8(seed))}
}

func (s *SeededSource) Uint32() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Uint32()
}

func (s *SeededSource) Uint64N(bound uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Uint64N(bound)
}
