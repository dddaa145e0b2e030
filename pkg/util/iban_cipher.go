package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// ErrDecryptionFailed is returned for any IBAN blob that cannot be
// decrypted: wrong key, corrupted or truncated input. Callers showing
// decrypted values to an admin must catch this and render a placeholder
// instead of failing the whole request.
var ErrDecryptionFailed = errors.New("iban decryption failed")

const gcmNonceSize = 12

// EncryptIBAN encrypts the IBAN with AES-256-GCM under the hex-encoded
// 32-byte key. A fresh random 12-byte nonce is drawn per call and
// prepended to the ciphertext; the whole blob is base64-encoded so it
// fits a text column.
func EncryptIBAN(iban, keyHex string) (string, error) {
	gcm, err := newIBANCipher(keyHex)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(iban), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptIBAN reverses EncryptIBAN. The first 12 bytes of the decoded
// blob are the nonce, the remainder is ciphertext plus authentication
// tag; any bit flip makes decryption fail with ErrDecryptionFailed
// rather than returning corrupted plaintext.
func DecryptIBAN(encrypted, keyHex string) (string, error) {
	gcm, err := newIBANCipher(keyHex)
	if err != nil {
		return "", err
	}

	blob, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(blob) < gcmNonceSize {
		return "", ErrDecryptionFailed
	}

	nonce, ciphertext := blob[:gcmNonceSize], blob[gcmNonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

func newIBANCipher(keyHex string) (cipher.AEAD, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
