// Package crypto implements the reversible passphrase-keyed token codec.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"

	"github.com/gerritforge/gemini-vault/internal/errs"
)

// Key-derivation parameters. The salt is a compiled-in constant shared by all
// accounts and deployments; the passphrase, not the salt, is the source of
// secrecy. Both must stay identical across Encode and Decode.
var kdfSalt = []byte{0x7d, 0x60, 0x43, 0x5f, 0x02, 0xe9, 0xe0, 0xae}

const (
	kdfIterations = 2048
	keyLen        = 32
)

// TokenCodec encrypts and decrypts token strings under a key derived from a
// single process-wide passphrase. The text form is standard base64; its
// alphabet contains no underscore, which the extid key encoding relies on.
type TokenCodec struct {
	key []byte
}

// NewTokenCodec derives the symmetric key from the passphrase. An empty
// passphrase is a configuration error and is rejected here, at startup.
func NewTokenCodec(passphrase string) (*TokenCodec, error) {
	if passphrase == "" {
		return nil, errors.New("empty token passphrase")
	}
	key := pbkdf2.Key([]byte(passphrase), kdfSalt, kdfIterations, keyLen, sha256.New)
	return &TokenCodec{key: key}, nil
}

// Encode encrypts plaintext with XChaCha20-Poly1305 under the derived key and
// returns base64(nonce || ciphertext). A fresh random nonce is drawn per call,
// so two encodings of the same plaintext differ.
func (c *TokenCodec) Encode(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrCodec, err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("%w: nonce: %v", errs.ErrCodec, err)
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	out = append(out, aead.Seal(nil, nonce, []byte(plaintext), nil)...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decode reverses Encode. It fails on malformed base64, truncated input, or
// an authentication failure (corrupted ciphertext or wrong passphrase).
func (c *TokenCodec) Decode(text string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return "", fmt.Errorf("%w: base64: %v", errs.ErrCodec, err)
	}
	if len(raw) < chacha20poly1305.NonceSizeX {
		return "", fmt.Errorf("%w: ciphertext too short", errs.ErrCodec)
	}
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrCodec, err)
	}
	nonce, ct := raw[:chacha20poly1305.NonceSizeX], raw[chacha20poly1305.NonceSizeX:]
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("%w: decrypt: %v", errs.ErrCodec, err)
	}
	return string(pt), nil
}
