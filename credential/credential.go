// Package credential models unforgeable, typed credentials: the badges that
// prove identity or permission throughout settlement. An Issuer mints
// credential classes and instances; construction is package-private, so a
// credential of a given class can only exist if the issuer produced it.
package credential

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Class identifies a credential type. The value is an opaque fingerprint
// derived from the issuer's seed, so two issuers can never collide on a class.
type Class string

// Credential is a single issued badge. Possession of the value is proof:
// checks compare the class, and zero-value credentials match nothing.
type Credential struct {
	class    Class
	id       string
	metadata map[string]string
}

// Issuer mints credential classes and credentials.
type Issuer struct {
	seed    []byte
	nonce   uint64
	classes map[Class]map[string]string
}

// NewIssuer creates an issuer with a random seed.
func NewIssuer() (*Issuer, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("credential: seed: %w", err)
	}
	return &Issuer{
		seed:    seed,
		classes: make(map[Class]map[string]string),
	}, nil
}

// NewClass mints a new credential class carrying the given metadata.
// Metadata is read back from every credential of the class, e.g. a
// marketplace class exposing a "fee_rate" field.
func (i *Issuer) NewClass(name string, metadata map[string]string) Class {
	i.nonce++

	h, _ := blake2b.New256(nil)
	h.Write(i.seed)
	h.Write([]byte(name))
	h.Write([]byte{
		byte(i.nonce >> 56), byte(i.nonce >> 48), byte(i.nonce >> 40), byte(i.nonce >> 32),
		byte(i.nonce >> 24), byte(i.nonce >> 16), byte(i.nonce >> 8), byte(i.nonce),
	})
	class := Class(name + ":" + hex.EncodeToString(h.Sum(nil)[:8]))

	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	i.classes[class] = meta
	return class
}

// Issue mints a credential of a previously created class.
func (i *Issuer) Issue(class Class) (Credential, error) {
	meta, ok := i.classes[class]
	if !ok {
		return Credential{}, fmt.Errorf("%w: %s", ErrUnknownClass, class)
	}
	return Credential{
		class:    class,
		id:       uuid.NewString(),
		metadata: meta,
	}, nil
}

// Class returns the credential's class, or the empty class for the zero value.
func (c Credential) Class() Class {
	return c.class
}

// ID returns the credential's unique id.
func (c Credential) ID() string {
	return c.id
}

// IsZero reports whether the credential was never issued.
func (c Credential) IsZero() bool {
	return c.class == ""
}

// Metadata reads a metadata field of the credential's class.
func (c Credential) Metadata(key string) (string, bool) {
	v, ok := c.metadata[key]
	return v, ok
}
