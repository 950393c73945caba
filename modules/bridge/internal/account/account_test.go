package account

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscriminator(t *testing.T) {
	sum := sha256.Sum256([]byte("account:BridgeState"))
	d := Discriminator("BridgeState")
	assert.Equal(t, sum[:8], d[:])
	assert.NotEqual(t, d, Discriminator("BurnTransaction"))
}

func TestBridgeStateLayout(t *testing.T) {
	state := entity.BridgeState{
		SourceBridgeAddress: ethcommon.HexToAddress("0x00000000000000000000000000000000000000aa"),
		RequiredValidators:  2,
		TotalMinted:         100,
		TotalBurned:         40,
		Nonce:               2,
		Authority:           solana.MustPublicKeyFromBase58("11111111111111111111111111111112"),
		Paused:              true,
	}

	data, err := EncodeBridgeState(state)
	require.NoError(t, err)
	require.Len(t, data, 8+20+1+8+8+8+32+1)

	d := Discriminator("BridgeState")
	assert.Equal(t, d[:], data[:8])
	assert.Equal(t, byte(0xaa), data[8+19])
	assert.Equal(t, byte(2), data[28])
	assert.Equal(t, uint64(100), binary.LittleEndian.Uint64(data[29:37]))
	assert.Equal(t, byte(1), data[len(data)-1], "paused flag is the last byte")

	decoded, err := DecodeBridgeState(data)
	require.NoError(t, err)
	assert.Equal(t, state, decoded)
}

func TestProcessedTransactionLayout(t *testing.T) {
	tx := entity.ProcessedTransaction{
		IsProcessed:    true,
		EthereumTxHash: ethcommon.HexToHash("0xaaaa"),
		Amount:         100,
		Recipient:      solana.MustPublicKeyFromBase58("11111111111111111111111111111112"),
		Timestamp:      time.Unix(1_700_000_000, 0).UTC(),
	}

	data, err := EncodeProcessedTransaction(tx)
	require.NoError(t, err)
	require.Len(t, data, 8+1+32+8+32+8)
	assert.Equal(t, byte(1), data[8])
	assert.Equal(t, int64(1_700_000_000), int64(binary.LittleEndian.Uint64(data[len(data)-8:])))

	decoded, err := DecodeProcessedTransaction(data)
	require.NoError(t, err)
	assert.Equal(t, tx, decoded)
}

func TestBurnTransactionLayout(t *testing.T) {
	tx := entity.BurnTransaction{
		User:              solana.MustPublicKeyFromBase58("11111111111111111111111111111112"),
		Amount:            40,
		EthereumRecipient: ethcommon.HexToAddress("0x00000000000000000000000000000000000000bb"),
		Timestamp:         time.Unix(1_700_000_100, 0).UTC(),
		Nonce:             1,
	}

	data, err := EncodeBurnTransaction(tx)
	require.NoError(t, err)
	require.Len(t, data, 8+32+8+20+8+8+1)
	assert.Equal(t, byte(0), data[len(data)-1], "processed_on_ethereum defaults to false")

	decoded, err := DecodeBurnTransaction(data)
	require.NoError(t, err)
	assert.Equal(t, tx, decoded)
}

func TestDecodeRejectsForeignAccount(t *testing.T) {
	data, err := EncodeBurnTransaction(entity.BurnTransaction{Timestamp: time.Unix(0, 0)})
	require.NoError(t, err)

	_, err = DecodeBridgeState(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.InvalidArgument))

	_, err = DecodeProcessedTransaction([]byte{1, 2, 3})
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}
