package entity

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// BridgeState is the singleton holding the bridge counters and configuration.
type BridgeState struct {
	SourceBridgeAddress ethcommon.Address
	RequiredValidators  uint8
	TotalMinted         uint64
	TotalBurned         uint64
	Nonce               uint64
	Authority           solana.PublicKey
	Paused              bool
}

// Outstanding returns the wrapped supply that has been minted and not burned yet.
func (s BridgeState) Outstanding() uint64 {
	if s.TotalBurned > s.TotalMinted {
		return 0
	}
	return s.TotalMinted - s.TotalBurned
}
