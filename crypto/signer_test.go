package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fiamma-chain/cosmwasm-client-go/clienterr"
)

const testPrivateKeyHex = "c9f2b6e1d0a54b8a9c3f71205e84d6b1fa0c2d93887e6a5f4b31c8d27e90a416"

func TestGetAddressIsDeterministic(t *testing.T) {
	signer, err := NewKeySigner(testPrivateKeyHex)
	require.NoError(t, err)

	first := signer.GetAddress("wasm")
	require.NotEmpty(t, first)
	require.Contains(t, first, "wasm1")

	for i := 0; i < 10; i++ {
		require.Equal(t, first, signer.GetAddress("wasm"))
	}

	// A fresh signer over the same key material derives the same address.
	other, err := NewKeySigner(testPrivateKeyHex)
	require.NoError(t, err)
	require.Equal(t, first, other.GetAddress("wasm"))

	// Different prefixes give different addresses for the same key.
	require.NotEqual(t, first, signer.GetAddress("osmo"))
}

func TestSignBytesIsDeterministic(t *testing.T) {
	signer, err := NewKeySigner(testPrivateKeyHex)
	require.NoError(t, err)

	payload := []byte("sign me")

	first, err := signer.SignBytes(payload)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := signer.SignBytes(payload)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestNewKeySignerAcceptsHexPrefix(t *testing.T) {
	signer, err := NewKeySigner("0x" + testPrivateKeyHex)
	require.NoError(t, err)

	plain, err := NewKeySigner(testPrivateKeyHex)
	require.NoError(t, err)

	require.Equal(t, plain.GetAddress("wasm"), signer.GetAddress("wasm"))
}

func TestNewKeySignerRejectsMalformedKeys(t *testing.T) {
	testCases := []struct {
		name string
		key  string
	}{
		{"not hex", "zzzz"},
		{"empty", ""},
		{"too short", "abcd1234"},
		{"too long", testPrivateKeyHex + "00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewKeySigner(tc.key)
			require.Error(t, err)
			require.True(t, errors.Is(err, clienterr.ErrInvalidKey))
		})
	}
}
