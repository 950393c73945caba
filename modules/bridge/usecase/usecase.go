package usecase

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
	"github.com/gagliardetto/solana-go"
	lru "github.com/hashicorp/golang-lru"
	"github.com/samber/lo"
)

const DefaultProcessedCacheSize = 4096

type Usecase struct {
	bridgeDg       datagateway.BridgeDataGateway
	engine         *engine.Engine
	relayers       map[solana.PublicKey]struct{}
	processedCache *lru.Cache
}

func New(bridgeDg datagateway.BridgeDataGateway, bridgeEngine *engine.Engine, relayers []solana.PublicKey, processedCacheSize int) (*Usecase, error) {
	if processedCacheSize <= 0 {
		processedCacheSize = DefaultProcessedCacheSize
	}
	processedCache, err := lru.New(processedCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create processed transaction cache")
	}
	return &Usecase{
		bridgeDg: bridgeDg,
		engine:   bridgeEngine,
		relayers: lo.SliceToMap(relayers, func(r solana.PublicKey) (solana.PublicKey, struct{}) {
			return r, struct{}{}
		}),
		processedCache: processedCache,
	}, nil
}
