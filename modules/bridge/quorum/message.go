package quorum

import (
	"encoding/binary"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

// Message is the deposit that validators attest to.
type Message struct {
	SourceTxHash ethcommon.Hash
	Amount       uint64
	Recipient    solana.PublicKey
}

// Digest returns keccak256(sourceTxHash || amount as big-endian uint64 || recipient).
// Validators sign this digest directly, without the personal_sign prefix.
func (m Message) Digest() ethcommon.Hash {
	var amount [8]byte
	binary.BigEndian.PutUint64(amount[:], m.Amount)
	return crypto.Keccak256Hash(m.SourceTxHash[:], amount[:], m.Recipient[:])
}
