package config

import (
	"github.com/gaze-network/bridge-network/internal/postgres"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
	"github.com/gaze-network/bridge-network/modules/bridge/export"
	"github.com/gaze-network/bridge-network/modules/bridge/ledger"
)

const DefaultTokenDecimals = 9

type Config struct {
	Database      string          `mapstructure:"database"`       // Database to store bridge data. `postgres` or `badger`, default is badger.
	Postgres      postgres.Config `mapstructure:"postgres"`
	Badger        BadgerConfig    `mapstructure:"badger"`
	Validators    []string        `mapstructure:"validators"`     // Ethereum addresses of the validator set.
	Relayers      []string        `mapstructure:"relayers"`       // Solana public keys allowed to settle burns.
	Ledger        ledger.Config   `mapstructure:"ledger"`
	Limits        engine.Limits   `mapstructure:"limits"`
	TokenDecimals *uint8          `mapstructure:"token_decimals"` // Display decimals of the wrapped token, default is 9.
	Export        export.Config   `mapstructure:"export"`

	ProcessedCacheSize int `mapstructure:"processed_cache_size"`
}

type BadgerConfig struct {
	Dir string `mapstructure:"dir"` // Empty runs in memory.
}
