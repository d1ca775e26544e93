// Package mrsa generates mini-RSA keys over 64-bit moduli and applies the raw
// single-block RSA exponentiation.
//
// This is not production RSA: there is no padding, no side-channel hardening
// and the modulus is only 64 bits wide.
package mrsa

import (
	"context"
	"time"

	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/logger"
	"github.com/turtacn/mrsa/pkg/modarith"
	"github.com/turtacn/mrsa/pkg/primality"
)

// Observer receives per-step outcomes of key generation, typically to feed
// metrics. Implementations must be safe for concurrent use when the Generator
// is shared.
type Observer interface {
	PrimeCandidate(accepted bool)
	ModulusRestart()
	ExponentCandidate(accepted bool)
	KeyGenerated(elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) PrimeCandidate(bool)        {}
func (nopObserver) ModulusRestart()            {}
func (nopObserver) ExponentCandidate(bool)     {}
func (nopObserver) KeyGenerated(time.Duration) {}

// Generator produces keys from a RandomSource. A Generator holds no mutable
// state of its own; it is safe for concurrent use if its source and observer
// are.
type Generator struct {
	random   RandomSource
	log      logger.Logger
	observer Observer
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for debug traces of the resample loops.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithObserver sets the observer notified of every candidate.
func WithObserver(o Observer) Option {
	return func(g *Generator) { g.observer = o }
}

// NewGenerator returns a Generator drawing from random. A nil random falls
// back to CryptoSource.
func NewGenerator(random RandomSource, opts ...Option) *Generator {
	if random == nil {
		random = CryptoSource{}
	}
	g := &Generator{
		random:   random,
		log:      logger.NewNoopLogger(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateKey returns a fresh key (e, d, n) drawn from the operating system
// CSPRNG. It never fails.
func GenerateKey() (e, d, n uint64) {
	k, _ := NewGenerator(CryptoSource{}).GenerateKey(context.Background())
	return k.E, k.D, k.N
}

// GenerateKey samples primes p, q until n = p·q has its high bit set, then
// samples e in [0, λ) until it is greater than 1, coprime to λ and invertible.
//
// Both loops are bounded only by the density of primes and of units mod λ.
// The only error is ctx's, checked once per round.
func (g *Generator) GenerateKey(ctx context.Context) (*Key, error) {
	start := time.Now()

	var p, q, n uint64
	restarts := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p = g.samplePrime()
		q = g.samplePrime()
		n = p * q
		if n >= constants.MinimumModulus {
			break
		}
		restarts++
		g.observer.ModulusRestart()
	}

	lambda := Lambda(p, q)

	var e, d uint64
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempts++
		e = g.random.Uint64N(lambda)
		if e > 1 && modarith.GCD(e, lambda) == 1 {
			if inv, ok := modarith.Inverse(e, lambda); ok && inv != 0 {
				d = inv
				g.observer.ExponentCandidate(true)
				break
			}
		}
		g.observer.ExponentCandidate(false)
	}

	elapsed := time.Since(start)
	g.observer.KeyGenerated(elapsed)
	g.log.Debug(ctx, "mini-RSA key generated", logger.Fields{
		"modulus":           n,
		"modulus_restarts":  restarts,
		"exponent_attempts": attempts,
		"elapsed":           elapsed.String(),
	})

	return &Key{E: e, D: d, N: n, P: p, Q: q}, nil
}

// samplePrime draws odd 32-bit candidates until one is at least 2^29 and
// prime.
func (g *Generator) samplePrime() uint64 {
	for {
		c := uint64(g.random.Uint32() | 1)
		if c >= constants.MinimumPrime && primality.MillerRabin(c) {
			g.observer.PrimeCandidate(true)
			return c
		}
		g.observer.PrimeCandidate(false)
	}
}
