package secret

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	copy(key, "0123456789abcdef0123456789abcdef")
	box, err := NewBox(key)
	require.NoError(t, err)

	ct, err := box.Encrypt("hello there")
	require.NoError(t, err)
	assert.NotEqual(t, "hello there", ct)

	pt, err := box.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, "hello there", pt)

	// Fresh nonce per call: same plaintext never repeats ciphertext.
	ct2, err := box.Encrypt("hello there")
	require.NoError(t, err)
	assert.NotEqual(t, ct, ct2)
}

func TestBoxRejectsTampering(t *testing.T) {
	key := make([]byte, 32)
	box, err := NewBox(key)
	require.NoError(t, err)

	ct, err := box.Encrypt("payload")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ct)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	_, err = box.Decrypt(base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

func TestBoxRejectsBadKey(t *testing.T) {
	_, err := NewBox([]byte("short"))
	assert.Error(t, err)
}
