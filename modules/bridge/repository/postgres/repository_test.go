package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/modules/bridge/ledger"
	"github.com/gaze-network/bridge-network/modules/bridge/quorum"
	"github.com/gagliardetto/solana-go"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// testDatabaseURLEnv points the repository tests at a disposable database.
// Every test runs in its own schema, which is dropped afterwards.
const testDatabaseURLEnv = "BRIDGE_TEST_POSTGRES_URL"

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	url := os.Getenv(testDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s is not set", testDatabaseURLEnv)
	}
	ctx := context.Background()

	admin, err := pgx.Connect(ctx, url)
	require.NoError(t, err)
	schema := fmt.Sprintf("bridge_test_%d", time.Now().UnixNano())
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		_ = admin.Close(context.Background())
	})

	poolConfig, err := pgxpool.ParseConfig(url)
	require.NoError(t, err)
	poolConfig.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migration, err := os.ReadFile(filepath.Join("..", "..", "database", "postgresql", "migrations", "000001_initialize_tables.up.sql"))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(migration))
	require.NoError(t, err)

	return NewRepository(pool)
}

func testState() entity.BridgeState {
	return entity.BridgeState{
		SourceBridgeAddress: ethcommon.HexToAddress("0x1111111111111111111111111111111111111111"),
		RequiredValidators:  2,
		Authority:           solana.NewWallet().PublicKey(),
	}
}

func TestBridgeState(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.GetBridgeState(ctx)
	assert.ErrorIs(t, err, errs.NotFound)

	state := testState()
	created, err := repo.CreateBridgeState(ctx, state)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateBridgeState(ctx, testState())
	require.NoError(t, err)
	assert.False(t, created, "the singleton must not be replaced")

	stored, err := repo.GetBridgeState(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, *stored)
}

func TestLockBridgeStateBlocks(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	_, err := repo.CreateBridgeState(ctx, testState())
	require.NoError(t, err)

	first, err := repo.BeginBridgeTx(ctx)
	require.NoError(t, err)
	defer func() {
		_ = first.Rollback(ctx)
	}()
	state, err := first.LockBridgeState(ctx)
	require.NoError(t, err)

	var locked atomic.Bool
	var eg errgroup.Group
	eg.Go(func() error {
		second, err := repo.BeginBridgeTx(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = second.Rollback(ctx)
		}()
		state, err := second.LockBridgeState(ctx)
		if err != nil {
			return err
		}
		locked.Store(true)
		if state.Nonce != 1 {
			return errors.Newf("second transaction read nonce %d, expected the committed 1", state.Nonce)
		}
		return nil
	})

	assert.Never(t, locked.Load, 200*time.Millisecond, 10*time.Millisecond, "lock must be held until the first transaction ends")

	state.Nonce++
	require.NoError(t, first.UpdateBridgeState(ctx, *state))
	require.NoError(t, first.Commit(ctx))

	require.NoError(t, eg.Wait())
	assert.True(t, locked.Load())
}

func TestLockBridgeStateSerializes(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	_, err := repo.CreateBridgeState(ctx, testState())
	require.NoError(t, err)

	const workers = 16
	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			tx, err := repo.BeginBridgeTx(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = tx.Rollback(ctx)
			}()
			state, err := tx.LockBridgeState(ctx)
			if err != nil {
				return err
			}
			state.Nonce++
			if err := tx.UpdateBridgeState(ctx, *state); err != nil {
				return err
			}
			return tx.Commit(ctx)
		})
	}
	require.NoError(t, eg.Wait())

	state, err := repo.GetBridgeState(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(workers), state.Nonce)
}

func TestProcessedTransactionDedup(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	hash := ethcommon.HexToHash("0xaa")
	processed := entity.ProcessedTransaction{
		IsProcessed:    true,
		EthereumTxHash: hash,
		Amount:         100,
		Recipient:      solana.NewWallet().PublicKey(),
		Timestamp:      time.Unix(1_700_000_000, 0),
	}

	created, err := repo.CreateProcessedTransaction(ctx, processed)
	require.NoError(t, err)
	assert.True(t, created)

	replay := processed
	replay.Amount = 1
	replay.Recipient = solana.NewWallet().PublicKey()
	created, err = repo.CreateProcessedTransaction(ctx, replay)
	require.NoError(t, err)
	assert.False(t, created)

	stored, err := repo.GetProcessedTransaction(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, processed.Amount, stored.Amount)
	assert.Equal(t, processed.Recipient, stored.Recipient)
	assert.Equal(t, processed.Timestamp.Unix(), stored.Timestamp.Unix())

	t.Run("rolled back insert", func(t *testing.T) {
		other := processed
		other.EthereumTxHash = ethcommon.HexToHash("0xbb")
		tx, err := repo.BeginBridgeTx(ctx)
		require.NoError(t, err)
		created, err := tx.CreateProcessedTransaction(ctx, other)
		require.NoError(t, err)
		assert.True(t, created)
		require.NoError(t, tx.Rollback(ctx))

		_, err = repo.GetProcessedTransaction(ctx, other.EthereumTxHash)
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("concurrent insert waits for the first transaction", func(t *testing.T) {
		other := processed
		other.EthereumTxHash = ethcommon.HexToHash("0xcc")
		first, err := repo.BeginBridgeTx(ctx)
		require.NoError(t, err)
		defer func() {
			_ = first.Rollback(ctx)
		}()
		created, err := first.CreateProcessedTransaction(ctx, other)
		require.NoError(t, err)
		require.True(t, created)

		result := make(chan bool, 1)
		var eg errgroup.Group
		eg.Go(func() error {
			created, err := repo.CreateProcessedTransaction(ctx, other)
			if err != nil {
				return err
			}
			result <- created
			return nil
		})

		require.NoError(t, first.Commit(ctx))
		require.NoError(t, eg.Wait())
		assert.False(t, <-result)
	})
}

func TestBurnTransactionKeys(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	alice := solana.NewWallet().PublicKey()
	bob := solana.NewWallet().PublicKey()
	burn := func(owner solana.PublicKey, nonce uint64) entity.BurnTransaction {
		return entity.BurnTransaction{
			User:              owner,
			Amount:            40,
			EthereumRecipient: ethcommon.HexToAddress("0x00000000000000000000000000000000000000e1"),
			Timestamp:         time.Unix(1_700_000_000, 0),
			Nonce:             nonce,
		}
	}

	testCases := []struct {
		name     string
		burn     entity.BurnTransaction
		expected bool
	}{
		{name: "new key", burn: burn(alice, 1), expected: true},
		{name: "same owner and nonce", burn: burn(alice, 1), expected: false},
		{name: "nonce taken by another owner", burn: burn(bob, 1), expected: false},
		{name: "next nonce", burn: burn(bob, 2), expected: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			created, err := repo.CreateBurnTransaction(ctx, tc.burn)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, created)
		})
	}

	updated, err := repo.SetBurnTransactionProcessedOnEthereum(ctx, bob, 2)
	require.NoError(t, err)
	assert.True(t, updated)
	updated, err = repo.SetBurnTransactionProcessedOnEthereum(ctx, bob, 2)
	require.NoError(t, err)
	assert.False(t, updated)
	_, err = repo.SetBurnTransactionProcessedOnEthereum(ctx, alice, 9)
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestEngineOnPostgres(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	memory := ledger.NewMemory()
	e := engine.New(repo, memory, quorum.NewValidatorSet(), engine.Limits{})
	_, err := e.Initialize(ctx, engine.InitializeParams{
		SourceBridgeAddress: ethcommon.HexToAddress("0x5555555555555555555555555555555555555555"),
		Authority:           solana.NewWallet().PublicKey(),
	})
	require.NoError(t, err)

	const attempts = 8
	user := solana.NewWallet().PublicKey()
	hash := ethcommon.HexToHash("0xaa")
	var minted, replayed atomic.Int64
	var eg errgroup.Group
	for i := 0; i < attempts; i++ {
		eg.Go(func() error {
			_, err := e.MintWrapped(ctx, engine.MintParams{SourceTxHash: hash, Amount: 100, Recipient: user})
			switch {
			case err == nil:
				minted.Add(1)
			case errors.Is(err, engine.ErrAlreadyProcessed):
				replayed.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	assert.Equal(t, int64(1), minted.Load())
	assert.Equal(t, int64(attempts-1), replayed.Load())

	for i := 0; i < attempts; i++ {
		eg.Go(func() error {
			_, err := e.BurnWrapped(ctx, engine.BurnParams{
				Amount:            10,
				EthereumRecipient: ethcommon.HexToAddress("0x00000000000000000000000000000000000000e1"),
				Owner:             user,
			})
			return err
		})
	}
	require.NoError(t, eg.Wait())

	state, err := repo.GetBridgeState(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), state.TotalMinted)
	assert.Equal(t, uint64(80), state.TotalBurned)
	assert.Equal(t, uint64(1+attempts), state.Nonce)
	assert.Equal(t, uint64(20), memory.BalanceOf(user))

	burns, err := repo.GetBurnTransactions(ctx, datagateway.GetBurnTransactionsParams{Limit: 100})
	require.NoError(t, err)
	require.Len(t, burns, attempts)
	for i, burn := range burns {
		assert.Equal(t, uint64(1+i), burn.Nonce)
	}
}
