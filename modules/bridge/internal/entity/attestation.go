package entity

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// SignatureLength is the length of a recoverable secp256k1 signature [R || S || V].
const SignatureLength = 65

// Attestation is a validator signature over a deposit.
// Signer is optional, when set it must match the address recovered from Signature.
type Attestation struct {
	Signer    ethcommon.Address
	Signature [SignatureLength]byte
}
