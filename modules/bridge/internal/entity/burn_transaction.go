package entity

import (
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// BurnTransaction is an exit intent waiting to be released on the source chain.
type BurnTransaction struct {
	User                solana.PublicKey
	Amount              uint64
	EthereumRecipient   ethcommon.Address
	Timestamp           time.Time
	Nonce               uint64
	ProcessedOnEthereum bool
}

// BurnKey identifies a burn entry.
type BurnKey struct {
	Owner solana.PublicKey
	Nonce uint64
}

func (b BurnTransaction) Key() BurnKey {
	return BurnKey{Owner: b.User, Nonce: b.Nonce}
}
