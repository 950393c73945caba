// Package quorum decides whether a set of validator attestations authorizes a mint.
// Everything in this package is pure: no I/O and no shared state.
package quorum

import (
	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
)

var (
	ErrSignerMismatch   = errors.New("recovered signer does not match claimed signer")
	ErrUnknownValidator = errors.New("signer is not a known validator")
)

// Tally is the outcome of counting attestations for a single message.
type Tally struct {
	// Signers holds each accepted validator once, in first-seen order.
	Signers []ethcommon.Address

	// Duplicates counts valid attestations from a signer that was already counted.
	Duplicates int

	// Invalid counts attestations that failed recovery, claimed the wrong signer or
	// were signed by an address outside the validator set.
	Invalid int
}

func (t Tally) Valid() int {
	return len(t.Signers)
}

// Count verifies every attestation against msg and the validator set and
// returns the distinct accepted signers.
func Count(msg Message, attestations []entity.Attestation, validators ValidatorSet) Tally {
	digest := msg.Digest()
	seen := make(map[ethcommon.Address]struct{}, len(attestations))

	var tally Tally
	for _, a := range attestations {
		signer, err := Verify(digest, a, validators)
		if err != nil {
			tally.Invalid++
			continue
		}
		if _, ok := seen[signer]; ok {
			tally.Duplicates++
			continue
		}
		seen[signer] = struct{}{}
		tally.Signers = append(tally.Signers, signer)
	}
	return tally
}

// Evaluate reports whether attestations carry at least required distinct, valid validator signatures over msg.
func Evaluate(msg Message, attestations []entity.Attestation, required uint8, validators ValidatorSet) bool {
	return Count(msg, attestations, validators).Valid() >= int(required)
}

// Verify recovers the signer of a single attestation and checks it against the claimed
// signer (if any) and the validator set.
func Verify(digest ethcommon.Hash, a entity.Attestation, validators ValidatorSet) (ethcommon.Address, error) {
	signer, err := RecoverSigner(digest, a.Signature)
	if err != nil {
		return ethcommon.Address{}, errors.WithStack(err)
	}
	if a.Signer != (ethcommon.Address{}) && a.Signer != signer {
		return ethcommon.Address{}, errors.WithStack(ErrSignerMismatch)
	}
	if !validators.Contains(signer) {
		return ethcommon.Address{}, errors.WithStack(ErrUnknownValidator)
	}
	return signer, nil
}

// RecoverSigner returns the address that produced sig over digest.
// Both V encodings (0/1 and 27/28) are accepted.
func RecoverSigner(digest ethcommon.Hash, sig [entity.SignatureLength]byte) (ethcommon.Address, error) {
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := crypto.SigToPub(digest[:], sig[:])
	if err != nil {
		return ethcommon.Address{}, errors.Wrap(err, "can't recover public key from signature")
	}
	return crypto.PubkeyToAddress(*pub), nil
}
