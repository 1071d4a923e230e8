// Package cryptox seals small secrets (the persisted access token) with a
// key derived from a user passphrase.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/travelmate/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16
	keySize  = 32
)

// ErrMalformed is returned by Open when the blob is too short to contain a
// salt and nonce.
var ErrMalformed = errors.New("malformed sealed blob")

// DeriveKey stretches passphrase with argon2id into a 32-byte AES key.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-GCM under a key derived from passphrase.
// The result is salt || nonce || ciphertext; a fresh salt and nonce are
// drawn on every call.
func Seal(plaintext, passphrase []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aead.NonceSize())

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// Open reverses Seal. A wrong passphrase or a tampered blob fails
// authentication and returns an error.
func Open(sealed, passphrase []byte) ([]byte, error) {
	if len(sealed) < saltSize {
		return nil, ErrMalformed
	}
	key := DeriveKey(passphrase, sealed[:saltSize])
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	rest := sealed[saltSize:]
	if len(rest) < aead.NonceSize() {
		return nil, ErrMalformed
	}
	return aead.Open(nil, rest[:aead.NonceSize()], rest[aead.NonceSize():], nil)
}
