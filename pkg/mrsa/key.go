package mrsa

import (
	"math/bits"

	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/errors"
	"github.com/turtacn/mrsa/pkg/modarith"
	"github.com/turtacn/mrsa/pkg/primality"
)

// PublicKey is the encrypting half of a Key.
type PublicKey struct {
	E uint64
	N uint64
}

// Key is a mini-RSA key pair. P and Q are the prime factors of N and are as
// secret as D.
type Key struct {
	E uint64
	D uint64
	N uint64
	P uint64
	Q uint64
}

// PublicKey returns the public half of k.
func (k *Key) PublicKey() PublicKey {
	return PublicKey{E: k.E, N: k.N}
}

// Lambda returns Carmichael's function of p·q for primes p and q:
// lcm(p-1, q-1).
func Lambda(p, q uint64) uint64 {
	return modarith.LCM(p-1, q-1)
}

// NewKeyFromPrimes derives the private exponent for a caller-chosen public
// exponent e from known primes p and q. e == 0 selects
// constants.DefaultPublicExponent. Unlike GenerateKey it does not require the
// modulus to reach 2^63.
func NewKeyFromPrimes(p, q, e uint64) (*Key, error) {
	if e == 0 {
		e = constants.DefaultPublicExponent
	}
	for _, f := range [...]uint64{p, q} {
		if !primality.MillerRabin(f) {
			return nil, errors.ErrInvalidPrime(f, "not prime")
		}
		if f == 2 {
			return nil, errors.ErrInvalidPrime(f, "must be odd")
		}
	}
	if p == q {
		return nil, errors.ErrInvalidPrime(q, "factors must be distinct")
	}
	hi, n := bits.Mul64(p, q)
	if hi != 0 {
		return nil, errors.ErrInvalidKey("modulus exceeds 64 bits")
	}

	lambda := Lambda(p, q)
	if e <= 1 || e >= lambda {
		return nil, errors.ErrInvalidKey("public exponent out of range (1, lambda)")
	}
	d, ok := modarith.Inverse(e, lambda)
	if !ok {
		return nil, errors.ErrNoInverse(e, lambda)
	}

	return &Key{E: e, D: d, N: n, P: p, Q: q}, nil
}

// Validate checks every invariant a generated key satisfies: n >= 2^63,
// n = p·q for odd primes p, q >= 2^29, 1 < e < λ and e·d ≡ 1 (mod λ).
func (k *Key) Validate() error {
	if k.N < constants.MinimumModulus {
		return errors.ErrInvalidKey("modulus high bit not set")
	}
	for _, f := range [...]uint64{k.P, k.Q} {
		if f&1 == 0 || f < constants.MinimumPrime {
			return errors.ErrInvalidKey("prime factor must be odd and at least 2^29")
		}
		if !primality.MillerRabin(f) {
			return errors.ErrInvalidKey("factor is not prime")
		}
	}
	if hi, lo := bits.Mul64(k.P, k.Q); hi != 0 || lo != k.N {
		return errors.ErrInvalidKey("modulus is not the product of its factors")
	}

	lambda := Lambda(k.P, k.Q)
	if k.E <= 1 || k.E >= lambda {
		return errors.ErrInvalidKey("public exponent out of range (1, lambda)")
	}
	if k.D == 0 || modarith.Mul(k.E, k.D, lambda) != 1 {
		return errors.ErrInvalidKey("e·d is not 1 modulo lambda")
	}
	return nil
}
