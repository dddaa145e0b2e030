package util

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestEncryptDecryptIBAN_RoundTrip(t *testing.T) {
	ibans := []string{
		"NL91ABNA0417164300",
		"NL20INGB0001234567",
		"NL02RABO0123456789",
		"", // empty plaintext still round-trips
	}

	for _, iban := range ibans {
		encrypted, err := EncryptIBAN(iban, testKeyHex)
		require.NoError(t, err)
		assert.NotEqual(t, iban, encrypted)

		decrypted, err := DecryptIBAN(encrypted, testKeyHex)
		require.NoError(t, err)
		assert.Equal(t, iban, decrypted)
	}
}

func TestEncryptIBAN_FreshNoncePerCall(t *testing.T) {
	a, err := EncryptIBAN("NL91ABNA0417164300", testKeyHex)
	require.NoError(t, err)
	b, err := EncryptIBAN("NL91ABNA0417164300", testKeyHex)
	require.NoError(t, err)

	// Same plaintext, same key, different blobs.
	assert.NotEqual(t, a, b)
}

func TestEncryptIBAN_BlobLayout(t *testing.T) {
	encrypted, err := EncryptIBAN("NL91ABNA0417164300", testKeyHex)
	require.NoError(t, err)

	blob, err := base64.StdEncoding.DecodeString(encrypted)
	require.NoError(t, err)

	// 12-byte nonce + ciphertext + 16-byte GCM tag.
	assert.Equal(t, 12+len("NL91ABNA0417164300")+16, len(blob))
}

func TestDecryptIBAN_TamperDetection(t *testing.T) {
	encrypted, err := EncryptIBAN("NL91ABNA0417164300", testKeyHex)
	require.NoError(t, err)

	blob, err := base64.StdEncoding.DecodeString(encrypted)
	require.NoError(t, err)

	// Flipping any single byte must fail decryption, never return
	// altered plaintext.
	for i := range blob {
		tampered := make([]byte, len(blob))
		copy(tampered, blob)
		tampered[i] ^= 0x01

		_, err := DecryptIBAN(base64.StdEncoding.EncodeToString(tampered), testKeyHex)
		assert.ErrorIs(t, err, ErrDecryptionFailed, "byte %d", i)
	}
}

func TestDecryptIBAN_WrongKey(t *testing.T) {
	encrypted, err := EncryptIBAN("NL91ABNA0417164300", testKeyHex)
	require.NoError(t, err)

	otherKey := strings.Repeat("ab", 32)
	_, err = DecryptIBAN(encrypted, otherKey)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptIBAN_MalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"empty", ""},
		{"truncated below nonce size", base64.StdEncoding.EncodeToString([]byte("short"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecryptIBAN(tt.input, testKeyHex)
			assert.ErrorIs(t, err, ErrDecryptionFailed)
		})
	}
}

func TestEncryptIBAN_InvalidKey(t *testing.T) {
	_, err := EncryptIBAN("NL91ABNA0417164300", "zz")
	assert.Error(t, err)

	_, err = EncryptIBAN("NL91ABNA0417164300", "abcd") // too short
	assert.Error(t, err)
}
