// Package cryptox implements client-side file encryption for SafeShare.
//
// Every file is sealed with AES-256-GCM under its own random file key and a
// fresh random 96-bit IV. The file key itself is wrapped (again AES-GCM)
// with a master key derived from the configured passphrase and salt via
// argon2id. The master key lives only for the lifetime of the process and
// is never persisted or sent to the backend.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"

	"safeshare/internal/common"
)

const (
	// KeySize is the AES-256 key length used for both file and master keys.
	KeySize = 32
	// IVSize is the GCM nonce length. 96 bits, never reused with one key.
	IVSize = 12

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// EncryptedPayload carries everything required to decrypt a file except the
// master key: the sealed bytes, the per-file IV, and the wrapped file key
// with its own IV. Ciphertext is meaningless without the paired IV.
type EncryptedPayload struct {
	Ciphertext []byte
	IV         []byte
	WrappedKey []byte
	KeyIV      []byte
}

// DeriveMasterKey derives a 32-byte master key from a passphrase and salt
// using argon2id. Same inputs always produce the same key.
func DeriveMasterKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, KeySize)
}

// FileCipher encrypts and decrypts file bytes. It is safe for concurrent
// use; the master key is immutable after construction.
type FileCipher struct {
	masterKey []byte
}

// NewFileCipher derives the master key and returns a cipher ready for use.
func NewFileCipher(passphrase, salt []byte) (*FileCipher, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", common.ErrCrypto)
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", common.ErrCrypto)
	}
	return &FileCipher{masterKey: DeriveMasterKey(passphrase, salt)}, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func randBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Encrypt seals the plaintext with a fresh random file key and IV, then
// wraps the file key with the master key under a second random IV.
func (c *FileCipher) Encrypt(plain []byte) (*EncryptedPayload, error) {
	fileKey, err := randBytes(KeySize)
	if err != nil {
		return nil, fmt.Errorf("%w: generating file key: %v", common.ErrCrypto, err)
	}
	defer common.WipeByteArray(fileKey)

	iv, err := randBytes(IVSize)
	if err != nil {
		return nil, fmt.Errorf("%w: generating iv: %v", common.ErrCrypto, err)
	}

	aead, err := newGCM(fileKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	ciphertext := aead.Seal(nil, iv, plain, nil)

	keyIV, err := randBytes(IVSize)
	if err != nil {
		return nil, fmt.Errorf("%w: generating key iv: %v", common.ErrCrypto, err)
	}

	master, err := newGCM(c.masterKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	wrappedKey := master.Seal(nil, keyIV, fileKey, nil)

	return &EncryptedPayload{
		Ciphertext: ciphertext,
		IV:         iv,
		WrappedKey: wrappedKey,
		KeyIV:      keyIV,
	}, nil
}

// Decrypt unwraps the file key and opens the ciphertext. Any tampering with
// the ciphertext, IVs, or wrapped key fails the GCM tag check and is
// reported as a crypto error.
func (c *FileCipher) Decrypt(p *EncryptedPayload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil payload", common.ErrCrypto)
	}
	if len(p.IV) != IVSize || len(p.KeyIV) != IVSize {
		return nil, fmt.Errorf("%w: bad iv length", common.ErrCrypto)
	}

	master, err := newGCM(c.masterKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	fileKey, err := master.Open(nil, p.KeyIV, p.WrappedKey, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: unwrapping file key: %v", common.ErrCrypto, err)
	}
	defer common.WipeByteArray(fileKey)

	aead, err := newGCM(fileKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	plain, err := aead.Open(nil, p.IV, p.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: opening ciphertext: %v", common.ErrCrypto, err)
	}

	return plain, nil
}
