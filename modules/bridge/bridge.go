package bridge

import (
	"context"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/core/worker"
	"github.com/gaze-network/bridge-network/internal/config"
	"github.com/gaze-network/bridge-network/internal/postgres"
	"github.com/gaze-network/bridge-network/modules/bridge/api/httphandler"
	bridgeconfig "github.com/gaze-network/bridge-network/modules/bridge/config"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
	"github.com/gaze-network/bridge-network/modules/bridge/export"
	"github.com/gaze-network/bridge-network/modules/bridge/ledger"
	"github.com/gaze-network/bridge-network/modules/bridge/quorum"
	bridgebadger "github.com/gaze-network/bridge-network/modules/bridge/repository/badger"
	bridgepostgres "github.com/gaze-network/bridge-network/modules/bridge/repository/postgres"
	"github.com/gaze-network/bridge-network/modules/bridge/usecase"
	"github.com/gaze-network/bridge-network/pkg/logger"
	"github.com/gaze-network/bridge-network/pkg/logger/slogx"
	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

const Version = "v0.1.0"

// Module is the running bridge: its API is mounted on the HTTP server and the
// burn log export runs in the background.
type Module struct {
	*worker.Periodic
	cleanupFuncs []func(context.Context) error
}

func New(injector do.Injector) (worker.Worker, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	bridgeConf := conf.Modules.Bridge

	bridgeDg, cleanupFuncs, err := NewDataGateway(ctx, bridgeConf)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	module := &Module{cleanupFuncs: cleanupFuncs}

	validators, err := quorum.ParseValidatorSet(bridgeConf.Validators)
	if err != nil {
		return nil, errors.Wrap(err, "invalid validators configuration")
	}
	if validators.Len() == 0 {
		logger.WarnContext(ctx, "Validator set is empty, mints can only pass with required validators set to 0")
	}
	relayers, err := parsePublicKeys(bridgeConf.Relayers)
	if err != nil {
		return nil, errors.Wrap(err, "invalid relayers configuration")
	}

	ledgerService, err := NewLedger(bridgeConf.Ledger)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	bridgeEngine := engine.New(bridgeDg, ledgerService, validators, bridgeConf.Limits)
	bridgeUsecase, err := usecase.New(bridgeDg, bridgeEngine, relayers, bridgeConf.ProcessedCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "can't create bridge usecase")
	}

	// Mount API
	httpServer := do.MustInvoke[*fiber.App](injector)
	tokenDecimals := lo.FromPtrOr(bridgeConf.TokenDecimals, bridgeconfig.DefaultTokenDecimals)
	if err := httphandler.New(bridgeUsecase, tokenDecimals).Mount(httpServer); err != nil {
		return nil, errors.Wrap(err, "can't mount bridge API")
	}
	logger.InfoContext(ctx, "Mounted HTTP handler",
		slogx.Int("validators", validators.Len()),
		slogx.Int("relayers", len(relayers)),
	)

	// Burn log export
	var job worker.Job = noopJob{}
	if bridgeConf.Export.Interval > 0 {
		uploader, err := export.NewS3Uploader(ctx, bridgeConf.Export)
		if err != nil {
			return nil, errors.Wrap(err, "invalid export configuration")
		}
		job = export.NewJob(export.NewExporter(bridgeDg, bridgeConf.Export.PageSize), uploader, bridgeConf.Export)
	}
	module.Periodic = worker.NewPeriodic(job, bridgeConf.Export.Interval)

	return module, nil
}

// Shutdown stops the export worker and closes the storage.
func (m *Module) Shutdown() error {
	ctx := context.Background()
	err := m.Periodic.ShutdownWithContext(ctx)
	for _, cleanup := range m.cleanupFuncs {
		if cerr := cleanup(ctx); cerr != nil {
			err = errors.CombineErrors(err, cerr)
		}
	}
	return errors.WithStack(err)
}

// NewDataGateway opens the configured bridge storage. The returned funcs release it.
func NewDataGateway(ctx context.Context, conf bridgeconfig.Config) (datagateway.BridgeDataGateway, []func(context.Context) error, error) {
	var cleanupFuncs []func(context.Context) error
	switch strings.ToLower(utils.Default(conf.Database, "badger")) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, nil, errors.Wrap(err, "Invalid Postgres configuration for bridge")
			}
			return nil, nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		return bridgepostgres.NewRepository(pg), cleanupFuncs, nil
	case "badger":
		db, err := bridgebadger.Open(conf.Badger.Dir)
		if err != nil {
			return nil, nil, errors.Wrap(err, "can't open badger database")
		}
		if conf.Badger.Dir == "" {
			logger.WarnContext(ctx, "Badger directory is not set, bridge state is kept in memory only")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			return errors.WithStack(db.Close())
		})
		return bridgebadger.NewRepository(db), cleanupFuncs, nil
	default:
		return nil, nil, errors.Wrapf(errs.Unsupported, "%q database for bridge is not supported", conf.Database)
	}
}

func NewLedger(conf ledger.Config) (ledger.Service, error) {
	switch ledger.Type(strings.ToLower(string(utils.Default(conf.Type, ledger.TypeMemory)))) {
	case ledger.TypeMemory:
		memory, err := ledger.NewMemoryFromConfig(conf.Balance)
		if err != nil {
			return nil, errors.Wrap(err, "invalid memory ledger configuration")
		}
		return memory, nil
	case ledger.TypeHTTP:
		service, err := ledger.NewHTTPService(conf.HTTP)
		if err != nil {
			return nil, errors.Wrap(err, "invalid http ledger configuration")
		}
		return service, nil
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q ledger is not supported", conf.Type)
	}
}

func parsePublicKeys(keys []string) ([]solana.PublicKey, error) {
	result := make([]solana.PublicKey, 0, len(keys))
	for _, key := range keys {
		pubkey, err := solana.PublicKeyFromBase58(strings.TrimSpace(key))
		if err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "invalid public key %q", key)
		}
		result = append(result, pubkey)
	}
	return result, nil
}

type noopJob struct{}

func (noopJob) Name() string { return "burn_export" }

func (noopJob) Run(context.Context) error { return nil }
