package models

import (
	"strconv"
	"time"

	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/mrsa"
)

// KeyRecord is a stored mini-RSA key.
//
// Key components are kept as decimal text: SQLite integers are signed 64-bit
// and every modulus has its high bit set.
type KeyRecord struct {
	// ID is a UUID assigned at creation.
	ID    string `gorm:"primaryKey"`
	Label string `gorm:"index"`

	E string `gorm:"not null"`
	D string `gorm:"not null"`
	N string `gorm:"not null"`
	P string `gorm:"not null"`
	Q string `gorm:"not null"`

	Status    constants.KeyStatus `gorm:"index;not null"`
	RevokedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the table name independently of the struct name.
func (KeyRecord) TableName() string { return "mrsa_keys" }

// NewKeyRecord builds an active record for k.
func NewKeyRecord(id, label string, k *mrsa.Key) *KeyRecord {
	return &KeyRecord{
		ID:     id,
		Label:  label,
		E:      strconv.FormatUint(k.E, 10),
		D:      strconv.FormatUint(k.D, 10),
		N:      strconv.FormatUint(k.N, 10),
		P:      strconv.FormatUint(k.P, 10),
		Q:      strconv.FormatUint(k.Q, 10),
		Status: constants.KeyStatusActive,
	}
}

// Key parses the stored components back into an mrsa.Key.
func (r *KeyRecord) Key() (*mrsa.Key, error) {
	var k mrsa.Key
	for _, f := range []struct {
		dst *uint64
		src string
	}{
		{&k.E, r.E}, {&k.D, r.D}, {&k.N, r.N}, {&k.P, r.P}, {&k.Q, r.Q},
	} {
		v, err := strconv.ParseUint(f.src, 10, 64)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	return &k, nil
}

// IsActive reports whether the key may still be used.
func (r *KeyRecord) IsActive() bool {
	return r.Status == constants.KeyStatusActive
}

// KeyInfo is the public view of a stored key.
type KeyInfo struct {
	ID        string              `json:"id"`
	Label     string              `json:"label,omitempty"`
	E         uint64              `json:"e"`
	N         uint64              `json:"n"`
	Status    constants.KeyStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// Info returns the public view of r. Unparseable components are reported as 0.
func (r *KeyRecord) Info() KeyInfo {
	e, _ := strconv.ParseUint(r.E, 10, 64)
	n, _ := strconv.ParseUint(r.N, 10, 64)
	return KeyInfo{
		ID:        r.ID,
		Label:     r.Label,
		E:         e,
		N:         n,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}
