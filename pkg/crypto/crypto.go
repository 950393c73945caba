package crypto

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Client signs and verifies digests with a secp256k1 key, the way source-chain validators do.
type Client struct {
	privateKey *ecdsa.PrivateKey
}

// New creates a client from a hex encoded private key (with or without 0x prefix).
// An empty key creates a verify-only client.
func New(privateKeyStr string) (*Client, error) {
	if privateKeyStr == "" {
		return &Client{}, nil
	}
	privateKey, err := ethcrypto.HexToECDSA(strings.TrimPrefix(privateKeyStr, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "decode private key")
	}
	return &Client{privateKey: privateKey}, nil
}

// Generate creates a client with a new random key.
func Generate() (*Client, error) {
	privateKey, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate private key")
	}
	return &Client{privateKey: privateKey}, nil
}

// Address returns the source-chain address of the key.
func (c *Client) Address() ethcommon.Address {
	if c.privateKey == nil {
		return ethcommon.Address{}
	}
	return ethcrypto.PubkeyToAddress(c.privateKey.PublicKey)
}

// PrivateKeyHex returns the hex encoded private key without 0x prefix.
func (c *Client) PrivateKeyHex() string {
	if c.privateKey == nil {
		return ""
	}
	return hex.EncodeToString(ethcrypto.FromECDSA(c.privateKey))
}

// PublicKeyHex returns the hex encoded compressed public key.
func (c *Client) PublicKeyHex() string {
	if c.privateKey == nil {
		return ""
	}
	return hex.EncodeToString(ethcrypto.CompressPubkey(&c.privateKey.PublicKey))
}

// Sign signs a 32-byte digest and returns the recoverable signature [R || S || V] with V in {0, 1}.
func (c *Client) Sign(digest []byte) ([65]byte, error) {
	var sig [65]byte
	if c.privateKey == nil {
		return sig, errors.New("client has no private key")
	}
	raw, err := ethcrypto.Sign(digest, c.privateKey)
	if err != nil {
		return sig, errors.Wrap(err, "sign digest")
	}
	copy(sig[:], raw)
	return sig, nil
}

// Verify reports whether sig over digest was produced by address.
func (c *Client) Verify(digest []byte, sig [65]byte, address ethcommon.Address) (bool, error) {
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := ethcrypto.SigToPub(digest, sig[:])
	if err != nil {
		return false, errors.Wrap(err, "recover public key")
	}
	return ethcrypto.PubkeyToAddress(*pub) == address, nil
}
