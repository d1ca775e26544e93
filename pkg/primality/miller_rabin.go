// Package primality provides a deterministic Miller-Rabin test for 64-bit integers.
package primality

import "github.com/turtacn/mrsa/pkg/modarith"

// Witnesses is the base set that makes Miller-Rabin deterministic for every
// n < 2^64. Adding 41 would extend the bound to 3317044064679887385961981.
var Witnesses = [...]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

// MillerRabin reports whether n is prime.
//
// 0, 1 and every even number other than 2 are composite. Any n equal to one of
// the witnesses is prime.
func MillerRabin(n uint64) bool {
	if n < 2 || (n&1 == 0 && n != 2) {
		return false
	}

	// n-1 = q·2^k with q odd
	q, k := n-1, 0
	for q > 0 && q&1 == 0 {
		q >>= 1
		k++
	}

	for _, a := range Witnesses {
		if a == n {
			return true
		}
		if !passes(a, q, k, n) {
			return false
		}
	}
	return true
}

// passes reports whether n survives witness a: a^q ≡ 1, or a^(q·2^j) ≡ -1
// for some 0 <= j < k.
func passes(a, q uint64, k int, n uint64) bool {
	x := modarith.Pow(a, q, n)
	if x == 1 || x == n-1 {
		return true
	}
	for j := 1; j < k; j++ {
		x = modarith.Mul(x, x, n)
		if x == n-1 {
			return true
		}
	}
	return false
}

// IsPrime is MillerRabin.
func IsPrime(n uint64) bool {
	return MillerRabin(n)
}
