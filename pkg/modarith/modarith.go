// Package modarith implements overflow-free modular arithmetic over 64-bit
// unsigned integers.
//
// No intermediate value ever exceeds the modulus by more than one addition, so
// every function is total for any m > 0 and any a, b < 2^64. A zero modulus is
// a programming error and panics.
package modarith

const zeroModulus = "modarith: zero modulus"

func mustModulus(m uint64) {
	if m == 0 {
		panic(zeroModulus)
	}
}

// Add returns (a + b) mod m.
func Add(a, b, m uint64) uint64 {
	mustModulus(m)
	a %= m
	b %= m
	return add(a, b, m)
}

// add assumes a, b < m. If a >= m-b the true sum reaches m, so the result is
// taken as a-(m-b), which never wraps.
func add(a, b, m uint64) uint64 {
	if a >= m-b {
		return a - (m - b)
	}
	return a + b
}

// Sub returns (a - b) mod m, always in [0, m).
func Sub(a, b, m uint64) uint64 {
	mustModulus(m)
	a %= m
	b %= m
	return sub(a, b, m)
}

func sub(a, b, m uint64) uint64 {
	if a < b {
		return (m - b) + a
	}
	return a - b
}

// Mul returns (a * b) mod m using double-and-add: for every set bit of b the
// running doubled a is accumulated into the result.
func Mul(a, b, m uint64) uint64 {
	mustModulus(m)
	return mul(a%m, b%m, m)
}

func mul(a, b, m uint64) uint64 {
	var r uint64
	for b > 0 {
		if b&1 == 1 {
			r = add(r, a, m)
		}
		b >>= 1
		a = add(a, a, m)
	}
	return r
}

// Pow returns (a ^ b) mod m using square-and-multiply. Pow(a, 0, m) is 1 mod m.
func Pow(a, b, m uint64) uint64 {
	mustModulus(m)
	a %= m
	r := 1 % m
	for b > 0 {
		if b&1 == 1 {
			r = mul(r, a, m)
		}
		b >>= 1
		a = mul(a, a, m)
	}
	return r
}

// GCD returns the greatest common divisor of a and b. GCD(0, 0) is 0.
func GCD(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b, dividing before
// multiplying. The caller guarantees the result fits in 64 bits.
func LCM(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a / GCD(a, b) * b
}
