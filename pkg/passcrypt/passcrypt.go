// Package passcrypt wraps a payload in password-derived authenticated
// encryption. The envelope is self-describing:
//
//	salt (16) || nonce (12) || ciphertext+tag (len(plaintext)+16)
//
// and is what gets chunked and error-corrected downstream, so the salt and
// nonce are recoverable before any key derivation happens on decode. Salt and
// nonce are drawn fresh from crypto/rand on every Seal; they are never reused
// across encodes with the same password.
package passcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/seqforge/dna-codec/pkg/codecerr"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the PBKDF2 salt length.
	SaltSize = 16
	// NonceSize is the AES-GCM nonce length.
	NonceSize = 12
	// TagSize is the GCM authentication tag length.
	TagSize = 16
	// KeySize selects AES-256.
	KeySize = 32
	// Iterations is the PBKDF2 work cost.
	Iterations = 100_000
)

// Overhead is the fixed size the envelope adds on top of the plaintext.
const Overhead = SaltSize + NonceSize + TagSize

func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("passcrypt: new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("passcrypt: new gcm: %w", err)
	}
	return aead, nil
}

// Seal encrypts plaintext under a key derived from password and returns the
// envelope. An empty plaintext is valid and produces a tag-only envelope.
func Seal(plaintext []byte, password string) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("passcrypt: generate salt: %w", err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("passcrypt: generate nonce: %w", err)
	}

	aead, err := newGCM(deriveKey(password, salt))
	if err != nil {
		return nil, err
	}

	envelope := make([]byte, 0, Overhead+len(plaintext))
	envelope = append(envelope, salt...)
	envelope = append(envelope, nonce...)
	envelope = aead.Seal(envelope, nonce, plaintext, nil)
	return envelope, nil
}

// Open authenticates and decrypts an envelope produced by Seal. A wrong
// password and tampered ciphertext are indistinguishable: both fail
// authentication, and no plaintext is ever returned on failure.
func Open(envelope []byte, password string) ([]byte, error) {
	if len(envelope) < Overhead {
		return nil, &codecerr.AuthenticationError{
			Cause: fmt.Errorf("envelope of %d bytes shorter than minimum %d", len(envelope), Overhead),
		}
	}

	salt := envelope[:SaltSize]
	nonce := envelope[SaltSize : SaltSize+NonceSize]
	ciphertext := envelope[SaltSize+NonceSize:]

	aead, err := newGCM(deriveKey(password, salt))
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, &codecerr.AuthenticationError{Cause: errors.New("wrong password or tampered ciphertext")}
	}
	return plaintext, nil
}
