package modarith

// Inverse returns x such that a*x ≡ 1 (mod m). The boolean is false when no
// inverse exists, that is when gcd(a, m) != 1 or m == 1.
//
// This is the extended Euclidean algorithm with every Bézout coefficient held
// as a residue mod m, so nothing goes negative or overflows. The pairs
// (d0, x0) and (d1, x1) satisfy d ≡ x·a (mod m) throughout.
func Inverse(a, m uint64) (uint64, bool) {
	mustModulus(m)
	if m == 1 {
		return 0, false
	}

	d0, d1 := a%m, m
	x0, x1 := uint64(1), uint64(0)

	for d1 > 1 {
		q := d0 / d1
		d0, d1 = d1, d0%d1

		// q·x1 mod m, double-and-add over the bits of q.
		var prod uint64
		prev, acc := x1, x1
		for q > 0 {
			if q&1 == 1 {
				prod = add(prod, acc, m)
			}
			q >>= 1
			acc = add(acc, acc, m)
		}

		x0, x1 = prev, sub(x0, prod, m)
	}

	if d1 == 1 {
		return x1, true
	}
	return 0, false
}

// MulInv is Inverse with the sentinel-zero convention: it returns 0 when no
// inverse exists. A genuine inverse is never 0, so the sentinel is unambiguous.
func MulInv(a, m uint64) uint64 {
	x, _ := Inverse(a, m)
	return x
}
