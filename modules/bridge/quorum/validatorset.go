package quorum

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/samber/lo"
)

// ValidatorSet is the set of source-chain addresses whose attestations are accepted.
type ValidatorSet struct {
	addresses []ethcommon.Address
	index     map[ethcommon.Address]struct{}
}

func NewValidatorSet(addresses ...ethcommon.Address) ValidatorSet {
	addresses = lo.Uniq(addresses)
	return ValidatorSet{
		addresses: addresses,
		index: lo.SliceToMap(addresses, func(a ethcommon.Address) (ethcommon.Address, struct{}) {
			return a, struct{}{}
		}),
	}
}

// ParseValidatorSet parses hex encoded addresses, e.g. from configuration.
func ParseValidatorSet(hexAddresses []string) (ValidatorSet, error) {
	addresses := make([]ethcommon.Address, 0, len(hexAddresses))
	for _, s := range hexAddresses {
		if !ethcommon.IsHexAddress(s) {
			return ValidatorSet{}, errors.Wrapf(errs.InvalidArgument, "invalid validator address %q", s)
		}
		addr := ethcommon.HexToAddress(s)
		if addr == common.ZeroAddress {
			return ValidatorSet{}, errors.Wrap(errs.InvalidArgument, "validator address must not be zero")
		}
		addresses = append(addresses, addr)
	}
	return NewValidatorSet(addresses...), nil
}

func (s ValidatorSet) Contains(addr ethcommon.Address) bool {
	_, ok := s.index[addr]
	return ok
}

func (s ValidatorSet) Len() int {
	return len(s.addresses)
}

func (s ValidatorSet) Addresses() []ethcommon.Address {
	return append([]ethcommon.Address(nil), s.addresses...)
}
