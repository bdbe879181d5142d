package crypto

import (
	"encoding/hex"
	"strings"

	"github.com/fiamma-chain/cosmwasm-client-go/clienterr"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
)

// secp256k1 private keys are always 32 bytes.
const privateKeyLength = 32

// BytesSigner signs arbitrary payloads and derives addresses for the
// associated public key.
type BytesSigner interface {
	// SignBytes produces a deterministic signature over the given payload.
	SignBytes(bytes []byte) ([]byte, error)

	// GetAddress derives the bech32 address for the given prefix. Pure.
	GetAddress(prefix string) string

	// GetPublicKey returns the public key for signature verification.
	GetPublicKey() cryptotypes.PubKey
}

// KeySigner is a BytesSigner backed by a raw secp256k1 private key.
type KeySigner struct {
	privateKey *secp256k1.PrivKey
}

var _ BytesSigner = (*KeySigner)(nil)

// NewKeySigner creates a KeySigner from hex encoded private key material.
// Malformed key material fails here rather than on first use.
func NewKeySigner(privateKeyHex string) (*KeySigner, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")

	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, clienterr.ErrInvalidKey.Wrapf("private key is not valid hex: %s", err)
	}

	if len(raw) != privateKeyLength {
		return nil, clienterr.ErrInvalidKey.Wrapf("private key must be %d bytes, got %d", privateKeyLength, len(raw))
	}

	return &KeySigner{
		privateKey: &secp256k1.PrivKey{Key: raw},
	}, nil
}

func (s *KeySigner) SignBytes(bytes []byte) ([]byte, error) {
	signature, err := s.privateKey.Sign(bytes)
	if err != nil {
		return nil, clienterr.ErrInvalidKey.Wrapf("failed to sign payload: %s", err)
	}
	return signature, nil
}

func (s *KeySigner) GetAddress(prefix string) string {
	address, err := bech32.ConvertAndEncode(prefix, s.privateKey.PubKey().Address())
	if err != nil {
		// Address derivation from a validated key and a static prefix cannot fail.
		panic(err)
	}
	return address
}

func (s *KeySigner) GetPublicKey() cryptotypes.PubKey {
	return s.privateKey.PubKey()
}
