package common

import "github.com/gagliardetto/solana-go/rpc"

// Network is the destination (Solana-style) cluster the bridge settles on.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkDevnet  Network = "devnet"
	NetworkLocal   Network = "localnet"
)

var supportedNetworks = map[Network]struct{}{
	NetworkMainnet: {},
	NetworkTestnet: {},
	NetworkDevnet:  {},
	NetworkLocal:   {},
}

var clusters = map[Network]rpc.Cluster{
	NetworkMainnet: rpc.MainNetBeta,
	NetworkTestnet: rpc.TestNet,
	NetworkDevnet:  rpc.DevNet,
	NetworkLocal:   rpc.LocalNet,
}

func (n Network) IsSupported() bool {
	_, ok := supportedNetworks[n]
	return ok
}

// Cluster returns the well-known cluster endpoints of the network.
func (n Network) Cluster() rpc.Cluster {
	return clusters[n]
}

func (n Network) String() string {
	return string(n)
}
