package engine

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/modules/bridge/ledger"
	"github.com/gaze-network/bridge-network/modules/bridge/quorum"
	"github.com/gaze-network/bridge-network/modules/bridge/repository/badger"
	"github.com/gaze-network/bridge-network/pkg/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var (
	sourceBridge = ethcommon.HexToAddress("0x5555555555555555555555555555555555555555")
	ethRecipient = ethcommon.HexToAddress("0x00000000000000000000000000000000000000e1")
	fixedNow     = time.Unix(1_700_000_000, 0).UTC()
)

type testBridge struct {
	engine     *Engine
	repo       *badger.Repository
	validators []*crypto.Client
	authority  solana.PublicKey
}

func newTestBridge(t *testing.T, ledgerService ledger.Service, validatorCount int, limits Limits) *testBridge {
	t.Helper()
	db, err := badger.Open("")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	validators := make([]*crypto.Client, validatorCount)
	for i := range validators {
		validators[i], err = crypto.Generate()
		require.NoError(t, err)
	}
	set := quorum.NewValidatorSet(lo.Map(validators, func(v *crypto.Client, _ int) ethcommon.Address { return v.Address() })...)

	repo := badger.NewRepository(db)
	e := New(repo, ledgerService, set, limits)
	e.now = func() time.Time { return fixedNow }
	return &testBridge{
		engine:     e,
		repo:       repo,
		validators: validators,
		authority:  solana.NewWallet().PublicKey(),
	}
}

func (b *testBridge) initialize(t *testing.T, required uint8) {
	t.Helper()
	_, err := b.engine.Initialize(context.Background(), InitializeParams{
		SourceBridgeAddress: sourceBridge,
		RequiredValidators:  required,
		Authority:           b.authority,
	})
	require.NoError(t, err)
}

func (b *testBridge) attestations(t *testing.T, hash ethcommon.Hash, amount uint64, recipient solana.PublicKey, signers ...*crypto.Client) []entity.Attestation {
	t.Helper()
	digest := quorum.Message{SourceTxHash: hash, Amount: amount, Recipient: recipient}.Digest()
	return lo.Map(signers, func(v *crypto.Client, _ int) entity.Attestation {
		sig, err := v.Sign(digest[:])
		require.NoError(t, err)
		return entity.Attestation{Signer: v.Address(), Signature: sig}
	})
}

func (b *testBridge) mintParams(t *testing.T, hash ethcommon.Hash, amount uint64, recipient solana.PublicKey) MintParams {
	t.Helper()
	return MintParams{
		SourceTxHash: hash,
		Amount:       amount,
		Recipient:    recipient,
		Attestations: b.attestations(t, hash, amount, recipient, b.validators...),
	}
}

func (b *testBridge) state(t *testing.T) entity.BridgeState {
	t.Helper()
	state, err := b.repo.GetBridgeState(context.Background())
	require.NoError(t, err)
	return *state
}

func TestScenario(t *testing.T) {
	ctx := context.Background()
	memory := ledger.NewMemory()
	b := newTestBridge(t, memory, 2, Limits{})
	b.initialize(t, 2)
	user := solana.NewWallet().PublicKey()
	hash := ethcommon.HexToHash("0x01")

	processed, err := b.engine.MintWrapped(ctx, b.mintParams(t, hash, 100, user))
	require.NoError(t, err)
	assert.Equal(t, entity.ProcessedTransaction{
		IsProcessed:    true,
		EthereumTxHash: hash,
		Amount:         100,
		Recipient:      user,
		Timestamp:      fixedNow,
	}, *processed)

	state := b.state(t)
	assert.Equal(t, uint64(100), state.TotalMinted)
	assert.Equal(t, uint64(1), state.Nonce)
	assert.Equal(t, uint64(100), memory.BalanceOf(user))

	_, err = b.engine.MintWrapped(ctx, b.mintParams(t, hash, 100, user))
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, state, b.state(t), "replay must not change state")
	assert.Equal(t, uint64(100), memory.BalanceOf(user))

	burn, err := b.engine.BurnWrapped(ctx, BurnParams{Amount: 40, EthereumRecipient: ethRecipient, Owner: user})
	require.NoError(t, err)
	assert.Equal(t, entity.BurnTransaction{
		User:              user,
		Amount:            40,
		EthereumRecipient: ethRecipient,
		Timestamp:         fixedNow,
		Nonce:             1,
	}, *burn)

	state = b.state(t)
	assert.Equal(t, uint64(100), state.TotalMinted)
	assert.Equal(t, uint64(40), state.TotalBurned)
	assert.Equal(t, uint64(2), state.Nonce)
	assert.Equal(t, uint64(60), memory.BalanceOf(user))

	stored, err := b.repo.GetBurnTransaction(ctx, user, 1)
	require.NoError(t, err)
	assert.Equal(t, *burn, *stored)
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	b := newTestBridge(t, ledger.NewMemory(), 1, Limits{})

	t.Run("zero source address", func(t *testing.T) {
		_, err := b.engine.Initialize(ctx, InitializeParams{RequiredValidators: 1, Authority: b.authority})
		assert.ErrorIs(t, err, ErrInvalidSourceAddress)
	})

	t.Run("not initialized", func(t *testing.T) {
		_, err := b.engine.MintWrapped(ctx, b.mintParams(t, ethcommon.HexToHash("0x01"), 1, solana.NewWallet().PublicKey()))
		assert.ErrorIs(t, err, ErrNotInitialized)
		_, err = b.engine.PauseBridge(ctx, b.authority)
		assert.ErrorIs(t, err, ErrNotInitialized)
	})

	state, err := b.engine.Initialize(ctx, InitializeParams{SourceBridgeAddress: sourceBridge, RequiredValidators: 1, Authority: b.authority})
	require.NoError(t, err)
	assert.Equal(t, entity.BridgeState{SourceBridgeAddress: sourceBridge, RequiredValidators: 1, Authority: b.authority}, *state)

	_, err = b.engine.Initialize(ctx, InitializeParams{SourceBridgeAddress: sourceBridge, RequiredValidators: 3, Authority: solana.NewWallet().PublicKey()})
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Equal(t, *state, b.state(t))
}

func TestMintQuorum(t *testing.T) {
	ctx := context.Background()
	b := newTestBridge(t, ledger.NewMemory(), 3, Limits{})
	b.initialize(t, 2)
	user := solana.NewWallet().PublicKey()
	outsider, err := crypto.Generate()
	require.NoError(t, err)

	testCases := []struct {
		name    string
		signers func() []*crypto.Client
	}{
		{
			name:    "one signer",
			signers: func() []*crypto.Client { return b.validators[:1] },
		},
		{
			name:    "duplicate signer",
			signers: func() []*crypto.Client { return []*crypto.Client{b.validators[0], b.validators[0], b.validators[0]} },
		},
		{
			name:    "unknown signer",
			signers: func() []*crypto.Client { return []*crypto.Client{b.validators[0], outsider} },
		},
	}
	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hash := ethcommon.BigToHash(big.NewInt(int64(100 + i)))
			_, err := b.engine.MintWrapped(ctx, MintParams{
				SourceTxHash: hash,
				Amount:       10,
				Recipient:    user,
				Attestations: b.attestations(t, hash, 10, user, tc.signers()...),
			})
			assert.ErrorIs(t, err, ErrInsufficientValidators)

			// rejected mint leaves no dedup record behind
			_, err = b.repo.GetProcessedTransaction(ctx, hash)
			assert.ErrorIs(t, err, errs.NotFound)
		})
	}

	t.Run("signature over another amount", func(t *testing.T) {
		hash := ethcommon.HexToHash("0x0200")
		_, err := b.engine.MintWrapped(ctx, MintParams{
			SourceTxHash: hash,
			Amount:       1_000,
			Recipient:    user,
			Attestations: b.attestations(t, hash, 10, user, b.validators...),
		})
		assert.ErrorIs(t, err, ErrInsufficientValidators)
	})

	t.Run("two distinct signers", func(t *testing.T) {
		hash := ethcommon.HexToHash("0x0201")
		_, err := b.engine.MintWrapped(ctx, MintParams{
			SourceTxHash: hash,
			Amount:       10,
			Recipient:    user,
			Attestations: b.attestations(t, hash, 10, user, b.validators[2], b.validators[2], b.validators[1]),
		})
		assert.NoError(t, err)
	})

	state := b.state(t)
	assert.Equal(t, uint64(10), state.TotalMinted)
	assert.Equal(t, uint64(1), state.Nonce)
}

func TestMintWithoutRequiredValidators(t *testing.T) {
	ctx := context.Background()
	b := newTestBridge(t, ledger.NewMemory(), 1, Limits{})
	b.initialize(t, 0)

	_, err := b.engine.MintWrapped(ctx, MintParams{
		SourceTxHash: ethcommon.HexToHash("0x01"),
		Amount:       5,
		Recipient:    solana.NewWallet().PublicKey(),
	})
	assert.NoError(t, err)
}

func TestAmountValidation(t *testing.T) {
	ctx := context.Background()
	memory := ledger.NewMemory()
	b := newTestBridge(t, memory, 1, Limits{MinAmount: 10, MaxAmount: 1_000})
	b.initialize(t, 1)
	user := solana.NewWallet().PublicKey()
	require.NoError(t, memory.Mint(ctx, 10_000, user))

	for _, amount := range []uint64{0, 9, 1_001} {
		t.Run(fmt.Sprintf("amount %d", amount), func(t *testing.T) {
			_, err := b.engine.MintWrapped(ctx, b.mintParams(t, ethcommon.HexToHash("0x01"), amount, user))
			assert.ErrorIs(t, err, ErrInvalidAmount)
			_, err = b.engine.BurnWrapped(ctx, BurnParams{Amount: amount, EthereumRecipient: ethRecipient, Owner: user})
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}

	_, err := b.engine.BurnWrapped(ctx, BurnParams{Amount: 10, Owner: user})
	assert.ErrorIs(t, err, ErrInvalidSourceAddress)

	state := b.state(t)
	assert.Zero(t, state.Nonce)
	assert.Equal(t, uint64(10_000), memory.BalanceOf(user))
}

func TestReplayRegardlessOfAmount(t *testing.T) {
	ctx := context.Background()
	memory := ledger.NewMemory()
	b := newTestBridge(t, memory, 1, Limits{MaxAmount: 1_000})
	b.initialize(t, 1)
	user := solana.NewWallet().PublicKey()
	hash := ethcommon.HexToHash("0xaa")

	_, err := b.engine.MintWrapped(ctx, b.mintParams(t, hash, 100, user))
	require.NoError(t, err)
	state := b.state(t)

	testCases := []struct {
		name      string
		amount    uint64
		recipient solana.PublicKey
	}{
		{name: "zero amount", amount: 0, recipient: user},
		{name: "amount above limit", amount: 1_001, recipient: user},
		{name: "different recipient", amount: 100, recipient: solana.NewWallet().PublicKey()},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.engine.MintWrapped(ctx, b.mintParams(t, hash, tc.amount, tc.recipient))
			assert.ErrorIs(t, err, ErrAlreadyProcessed)
			assert.Equal(t, state, b.state(t))
		})
	}
	assert.Equal(t, uint64(100), memory.BalanceOf(user))
}

func TestPause(t *testing.T) {
	ctx := context.Background()
	memory := ledger.NewMemory()
	b := newTestBridge(t, memory, 1, Limits{})
	b.initialize(t, 1)
	user := solana.NewWallet().PublicKey()
	require.NoError(t, memory.Mint(ctx, 100, user))
	hash := ethcommon.HexToHash("0x0a")

	t.Run("non-authority", func(t *testing.T) {
		_, err := b.engine.PauseBridge(ctx, user)
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, err = b.engine.UpdateRequiredValidators(ctx, user, 0)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.False(t, b.state(t).Paused)
	})

	state, err := b.engine.PauseBridge(ctx, b.authority)
	require.NoError(t, err)
	assert.True(t, state.Paused)

	_, err = b.engine.MintWrapped(ctx, b.mintParams(t, hash, 10, user))
	assert.ErrorIs(t, err, ErrBridgePaused)
	_, err = b.engine.BurnWrapped(ctx, BurnParams{Amount: 10, EthereumRecipient: ethRecipient, Owner: user})
	assert.ErrorIs(t, err, ErrBridgePaused)

	_, err = b.engine.UnpauseBridge(ctx, user)
	assert.ErrorIs(t, err, ErrUnauthorized)

	state, err = b.engine.UnpauseBridge(ctx, b.authority)
	require.NoError(t, err)
	assert.False(t, state.Paused)

	// the same deposit is mintable once unpaused
	_, err = b.engine.MintWrapped(ctx, b.mintParams(t, hash, 10, user))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b.state(t).Nonce)
}

func TestUpdateRequiredValidators(t *testing.T) {
	ctx := context.Background()
	b := newTestBridge(t, ledger.NewMemory(), 2, Limits{})
	b.initialize(t, 1)
	user := solana.NewWallet().PublicKey()

	state, err := b.engine.UpdateRequiredValidators(ctx, b.authority, 2)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), state.RequiredValidators)

	hash := ethcommon.HexToHash("0x0b")
	_, err = b.engine.MintWrapped(ctx, MintParams{
		SourceTxHash: hash,
		Amount:       1,
		Recipient:    user,
		Attestations: b.attestations(t, hash, 1, user, b.validators[0]),
	})
	assert.ErrorIs(t, err, ErrInsufficientValidators)

	state, err = b.engine.UpdateRequiredValidators(ctx, b.authority, 0)
	require.NoError(t, err)
	assert.Zero(t, state.RequiredValidators)
	assert.Zero(t, state.Nonce, "admin transitions do not consume nonces")
}

func TestLedgerFailure(t *testing.T) {
	ctx := context.Background()
	ledgerErr := errors.New("token program unavailable")
	user := solana.NewWallet().PublicKey()
	hash := ethcommon.HexToHash("0x0c")

	t.Run("mint", func(t *testing.T) {
		m := &ledgerMock{}
		b := newTestBridge(t, m, 1, Limits{})
		b.initialize(t, 1)
		m.On("Mint", mock.Anything, uint64(50), user).Return(ledgerErr).Once()
		m.On("Mint", mock.Anything, uint64(50), user).Return(nil).Once()

		_, err := b.engine.MintWrapped(ctx, b.mintParams(t, hash, 50, user))
		assert.True(t, errors.Is(err, ErrLedger))
		assert.ErrorIs(t, err, ledgerErr)

		_, err = b.repo.GetProcessedTransaction(ctx, hash)
		assert.ErrorIs(t, err, errs.NotFound, "dedup record must roll back with the failed mint")
		assert.Zero(t, b.state(t).TotalMinted)

		_, err = b.engine.MintWrapped(ctx, b.mintParams(t, hash, 50, user))
		require.NoError(t, err)
		assert.Equal(t, uint64(50), b.state(t).TotalMinted)
		m.AssertExpectations(t)
	})

	t.Run("burn", func(t *testing.T) {
		b := newTestBridge(t, ledger.NewMemory(), 1, Limits{})
		b.initialize(t, 1)

		_, err := b.engine.BurnWrapped(ctx, BurnParams{Amount: 1, EthereumRecipient: ethRecipient, Owner: user})
		assert.True(t, errors.Is(err, ErrLedger))
		assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)

		assert.Zero(t, b.state(t).Nonce)
		burns, err := b.repo.GetBurnTransactions(ctx, datagateway.GetBurnTransactionsParams{Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, burns)
	})
}

func TestConcurrentReplay(t *testing.T) {
	ctx := context.Background()
	memory := ledger.NewMemory()
	b := newTestBridge(t, memory, 2, Limits{})
	b.initialize(t, 2)
	user := solana.NewWallet().PublicKey()
	params := b.mintParams(t, ethcommon.HexToHash("0x0d"), 7, user)

	const workers = 16
	var (
		mu        sync.Mutex
		succeeded int
		replayed  int
	)
	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			_, err := b.engine.MintWrapped(ctx, params)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrAlreadyProcessed):
				replayed++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, replayed)
	assert.Equal(t, uint64(7), memory.BalanceOf(user))
	assert.Equal(t, uint64(7), b.state(t).TotalMinted)
	assert.Equal(t, uint64(1), b.state(t).Nonce)
}

func TestConcurrentNonces(t *testing.T) {
	ctx := context.Background()
	memory := ledger.NewMemory()
	b := newTestBridge(t, memory, 1, Limits{})
	b.initialize(t, 1)

	const (
		mints = 20
		burns = 10
	)
	owner := solana.NewWallet().PublicKey()
	require.NoError(t, memory.Mint(ctx, burns*3, owner))

	var eg errgroup.Group
	for i := 0; i < mints; i++ {
		params := b.mintParams(t, ethcommon.BigToHash(big.NewInt(int64(1_000+i))), uint64(i+1), solana.NewWallet().PublicKey())
		eg.Go(func() error {
			_, err := b.engine.MintWrapped(ctx, params)
			return err
		})
	}
	for i := 0; i < burns; i++ {
		eg.Go(func() error {
			_, err := b.engine.BurnWrapped(ctx, BurnParams{Amount: 3, EthereumRecipient: ethRecipient, Owner: owner})
			return err
		})
	}
	require.NoError(t, eg.Wait())

	state := b.state(t)
	assert.Equal(t, uint64(mints+burns), state.Nonce)
	assert.Equal(t, uint64(mints*(mints+1)/2), state.TotalMinted)
	assert.Equal(t, uint64(burns*3), state.TotalBurned)

	records, err := b.repo.GetBurnTransactions(ctx, datagateway.GetBurnTransactionsParams{Limit: 100})
	require.NoError(t, err)
	require.Len(t, records, burns)
	nonces := lo.Map(records, func(r *entity.BurnTransaction, _ int) uint64 { return r.Nonce })
	assert.Len(t, lo.Uniq(nonces), burns)
	for _, nonce := range nonces {
		assert.Less(t, nonce, state.Nonce)
	}
}

func TestLimitsAllows(t *testing.T) {
	assert.False(t, Limits{}.Allows(0))
	assert.True(t, Limits{}.Allows(1))
	assert.True(t, Limits{MinAmount: 5}.Allows(5))
	assert.False(t, Limits{MinAmount: 5}.Allows(4))
	assert.True(t, Limits{MaxAmount: 5}.Allows(5))
	assert.False(t, Limits{MaxAmount: 5}.Allows(6))
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "ok", resultLabel(nil))
	assert.Equal(t, "transaction_already_processed", resultLabel(errors.WithStack(ErrAlreadyProcessed)))
	assert.Equal(t, "ledger_error", resultLabel(errors.Mark(errors.New("x"), ErrLedger)))
	assert.Equal(t, "error", resultLabel(errors.New("x")))
}
