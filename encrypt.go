package shroud

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// Encryption errors.
var (
	ErrInvalidKeySize   = errors.New("invalid key size")
	ErrCiphertextShort  = errors.New("ciphertext too short")
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Encryptor handles reversible encryption.
type Encryptor interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

type aesEncryptor struct {
	gcm cipher.AEAD
}

// AES returns an AES-GCM encryptor.
// Key must be 16, 24, or 32 bytes for AES-128, AES-192, or AES-256.
func AES(key []byte) (Encryptor, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &aesEncryptor{gcm: gcm}, nil
}

// Encrypt seals plaintext and prepends the random nonce.
func (e *aesEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return e.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (e *aesEncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	n := e.gcm.NonceSize()
	if len(ciphertext) < n {
		return nil, ErrCiphertextShort
	}
	plaintext, err := e.gcm.Open(nil, ciphertext[:n], ciphertext[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

type encryptTransform struct {
	enc Encryptor
}

// Encrypt returns a transform that replaces the value's textual form with
// base64-encoded ciphertext. Unlike the built-ins it is reversible by anyone
// holding the key, so it is pseudonymization, not anonymization.
//
// Register it explicitly:
//
//	enc, _ := shroud.AES(key)
//	a := shroud.New(shroud.WithTransform(shroud.MethodEncrypt, shroud.Encrypt(enc)))
func Encrypt(enc Encryptor) Transform {
	return &encryptTransform{enc: enc}
}

func (t *encryptTransform) Apply(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	ciphertext, err := t.enc.Encrypt([]byte(textOf(value)))
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
