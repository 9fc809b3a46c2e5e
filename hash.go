package shroud

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Hasher performs deterministic one-way hashing.
type Hasher interface {
	// Hash returns the lowercase hex digest of plaintext.
	Hash(plaintext []byte) string
}

type sha256Hasher struct{}

// SHA256Hasher returns a SHA-256 hasher (64 hex characters).
func SHA256Hasher() Hasher { return sha256Hasher{} }

func (sha256Hasher) Hash(plaintext []byte) string {
	sum := sha256.Sum256(plaintext)
	return hex.EncodeToString(sum[:])
}

type sha512Hasher struct{}

// SHA512Hasher returns a SHA-512 hasher (128 hex characters).
func SHA512Hasher() Hasher { return sha512Hasher{} }

func (sha512Hasher) Hash(plaintext []byte) string {
	sum := sha512.Sum512(plaintext)
	return hex.EncodeToString(sum[:])
}

type blake2bHasher struct{}

// BLAKE2bHasher returns a BLAKE2b-256 hasher (64 hex characters).
func BLAKE2bHasher() Hasher { return blake2bHasher{} }

func (blake2bHasher) Hash(plaintext []byte) string {
	sum := blake2b.Sum256(plaintext)
	return hex.EncodeToString(sum[:])
}

type sha3Hasher struct{}

// SHA3Hasher returns a SHA3-256 hasher (64 hex characters).
func SHA3Hasher() Hasher { return sha3Hasher{} }

func (sha3Hasher) Hash(plaintext []byte) string {
	sum := sha3.Sum256(plaintext)
	return hex.EncodeToString(sum[:])
}

func builtinHashers() map[HashAlgo]Hasher {
	return map[HashAlgo]Hasher{
		HashSHA256:  SHA256Hasher(),
		HashSHA512:  SHA512Hasher(),
		HashBLAKE2b: BLAKE2bHasher(),
		HashSHA3:    SHA3Hasher(),
	}
}

// hashTransform hashes the textual form of a value.
// The digest is unsalted: equal inputs always produce equal outputs, which
// keeps joins across anonymized records possible but makes low-entropy
// values guessable.
type hashTransform struct {
	hashers map[HashAlgo]Hasher
}

// Hash returns the built-in hash transform.
// Without an algo option it uses SHA-256.
func Hash() ConfigurableTransform {
	return &hashTransform{hashers: builtinHashers()}
}

func (t *hashTransform) Apply(value any) (any, error) {
	return t.ApplyWith(value, Sensitivity{Method: MethodHash})
}

func (t *hashTransform) ApplyWith(value any, s Sensitivity) (any, error) {
	if value == nil {
		return nil, nil
	}
	algo := s.Algo
	if algo == "" {
		algo = HashSHA256
	}
	h, ok := t.hashers[algo]
	if !ok {
		return nil, newConfigError(ErrInvalidTag, string(algo), "")
	}
	return h.Hash([]byte(textOf(value))), nil
}
