package mrsa

import (
	"github.com/turtacn/mrsa/pkg/errors"
	"github.com/turtacn/mrsa/pkg/modarith"
)

// Cipher replaces *m with m^k mod n. The same call encrypts (k = e) and
// decrypts (k = d).
//
// A block larger than n is rejected with ErrInvalidBlock and *m is left
// untouched; reducing it mod n would map two plaintexts to one ciphertext.
// m == n is admitted and maps to 0.
func Cipher(m *uint64, k, n uint64) error {
	if *m > n {
		return errors.ErrInvalidBlock(*m, n)
	}
	*m = modarith.Pow(*m, k, n)
	return nil
}

// Encrypt returns m^e mod n.
func (pk PublicKey) Encrypt(m uint64) (uint64, error) {
	if err := Cipher(&m, pk.E, pk.N); err != nil {
		return 0, err
	}
	return m, nil
}

// Encrypt returns m^e mod n.
func (k *Key) Encrypt(m uint64) (uint64, error) {
	return k.PublicKey().Encrypt(m)
}

// Decrypt returns c^d mod n.
func (k *Key) Decrypt(c uint64) (uint64, error) {
	if err := Cipher(&c, k.D, k.N); err != nil {
		return 0, err
	}
	return c, nil
}
