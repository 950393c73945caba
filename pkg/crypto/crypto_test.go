package crypto

import (
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	privateKeyStr = "ce9c2fd75623e82a83ed743518ec7749f6f355f7301dd432400b087717fed2f2"
	pubKeyStr     = "0251e2dfcdeea17cc9726e4be0855cd0bae19e64f3e247b10760cd76851e7df47e"
)

func TestNew(t *testing.T) {
	client, err := New("0x" + privateKeyStr)
	require.NoError(t, err)
	assert.Equal(t, privateKeyStr, client.PrivateKeyHex())
	assert.Equal(t, pubKeyStr, client.PublicKeyHex())
	assert.NotEqual(t, ethcommon.Address{}, client.Address())

	_, err = New("not-a-key")
	assert.Error(t, err)
}

func TestSignVerify(t *testing.T) {
	digest := ethcrypto.Keccak256([]byte("hello world"))

	privClient, err := New(privateKeyStr)
	require.NoError(t, err)
	pubClient, err := New("")
	require.NoError(t, err)

	sig, err := privClient.Sign(digest)
	require.NoError(t, err)
	assert.Contains(t, []byte{0, 1}, sig[64])

	ok, err := pubClient.Verify(digest, sig, privClient.Address())
	require.NoError(t, err)
	assert.True(t, ok)

	// Ethereum style V
	sig[64] += 27
	ok, err = pubClient.Verify(digest, sig, privClient.Address())
	require.NoError(t, err)
	assert.True(t, ok)

	other, err := Generate()
	require.NoError(t, err)
	ok, err = pubClient.Verify(digest, sig, other.Address())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = pubClient.Sign(digest)
	assert.Error(t, err)
}
