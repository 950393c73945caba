package common

import ethcommon "github.com/ethereum/go-ethereum/common"

// ZeroAddress is the zero value of a source-chain address.
var ZeroAddress = ethcommon.Address{}
