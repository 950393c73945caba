package usecase

import (
	"context"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/modules/bridge/engine"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/modules/bridge/ledger"
	"github.com/gaze-network/bridge-network/modules/bridge/quorum"
	"github.com/gaze-network/bridge-network/modules/bridge/repository/badger"
	"github.com/gaze-network/bridge-network/pkg/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ethRecipient = ethcommon.HexToAddress("0x00000000000000000000000000000000000000e1")

type fixture struct {
	usecase   *Usecase
	repo      *badger.Repository
	ledger    *ledger.Memory
	validator *crypto.Client
	authority solana.PublicKey
	relayer   solana.PublicKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := badger.Open("")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	validator, err := crypto.Generate()
	require.NoError(t, err)

	repo := badger.NewRepository(db)
	memory := ledger.NewMemory()
	relayer := solana.NewWallet().PublicKey()
	e := engine.New(repo, memory, quorum.NewValidatorSet(validator.Address()), engine.Limits{MaxAmount: 1_000})
	uc, err := New(repo, e, []solana.PublicKey{relayer}, 16)
	require.NoError(t, err)

	f := &fixture{
		usecase:   uc,
		repo:      repo,
		ledger:    memory,
		validator: validator,
		authority: solana.NewWallet().PublicKey(),
		relayer:   relayer,
	}
	_, err = uc.Initialize(context.Background(), engine.InitializeParams{
		SourceBridgeAddress: ethcommon.HexToAddress("0x5555555555555555555555555555555555555555"),
		RequiredValidators:  1,
		Authority:           f.authority,
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) mint(t *testing.T, hash ethcommon.Hash, amount uint64, recipient solana.PublicKey) {
	t.Helper()
	digest := quorum.Message{SourceTxHash: hash, Amount: amount, Recipient: recipient}.Digest()
	sig, err := f.validator.Sign(digest[:])
	require.NoError(t, err)
	_, err = f.usecase.MintWrapped(context.Background(), engine.MintParams{
		SourceTxHash: hash,
		Amount:       amount,
		Recipient:    recipient,
		Attestations: []entity.Attestation{{Signature: sig}},
	})
	require.NoError(t, err)
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := solana.NewWallet().PublicKey()

	f.mint(t, ethcommon.HexToHash("0x01"), 100, user)
	_, err := f.usecase.BurnWrapped(ctx, engine.BurnParams{Amount: 30, EthereumRecipient: ethRecipient, Owner: user})
	require.NoError(t, err)

	stats, err := f.usecase.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(70), stats.Outstanding)
	assert.Equal(t, 1, stats.Validators)
	assert.True(t, stats.QuorumAchievable)
	assert.True(t, stats.Healthy())
	assert.Equal(t, uint64(1_000), stats.Limits.MaxAmount)

	_, err = f.usecase.UpdateRequiredValidators(ctx, f.authority, 2)
	require.NoError(t, err)
	stats, err = f.usecase.GetStats(ctx)
	require.NoError(t, err)
	assert.False(t, stats.QuorumAchievable)
	assert.False(t, stats.Healthy())
}

func TestGetStatsNotInitialized(t *testing.T) {
	db, err := badger.Open("")
	require.NoError(t, err)
	defer db.Close()
	repo := badger.NewRepository(db)
	uc, err := New(repo, engine.New(repo, ledger.NewMemory(), quorum.NewValidatorSet(), engine.Limits{}), nil, 0)
	require.NoError(t, err)

	_, err = uc.GetStats(context.Background())
	assert.ErrorIs(t, err, engine.ErrNotInitialized)
}

func TestGetProcessedTransaction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	hash := ethcommon.HexToHash("0x02")

	_, err := f.usecase.GetProcessedTransaction(ctx, hash)
	assert.ErrorIs(t, err, errs.NotFound)
	_, ok := f.usecase.processedCache.Get(hash)
	assert.False(t, ok, "misses must not be cached")

	user := solana.NewWallet().PublicKey()
	f.mint(t, hash, 5, user)

	processed, err := f.usecase.GetProcessedTransaction(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), processed.Amount)
	assert.Equal(t, user, processed.Recipient)

	cached, ok := f.usecase.processedCache.Get(hash)
	require.True(t, ok)
	assert.Equal(t, *processed, cached)

	// callers get copies, mutating one leaves the cache intact
	hit, err := f.usecase.GetProcessedTransaction(ctx, hash)
	require.NoError(t, err)
	hit.Amount = 999
	hit.Recipient = solana.PublicKey{}

	again, err := f.usecase.GetProcessedTransaction(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), again.Amount)
	assert.Equal(t, user, again.Recipient)
	assert.NotSame(t, hit, again)
}

func TestGetBurnTransactions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := solana.NewWallet().PublicKey()
	f.mint(t, ethcommon.HexToHash("0x03"), 500, user)
	for i := 0; i < 3; i++ {
		_, err := f.usecase.BurnWrapped(ctx, engine.BurnParams{Amount: 10, EthereumRecipient: ethRecipient, Owner: user})
		require.NoError(t, err)
	}

	burns, err := f.usecase.GetBurnTransactions(ctx, datagateway.GetBurnTransactionsParams{Owner: &user})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, lo.Map(burns, func(b *entity.BurnTransaction, _ int) uint64 { return b.Nonce }))

	burns, err = f.usecase.GetBurnTransactions(ctx, datagateway.GetBurnTransactionsParams{FromNonce: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, burns, 1)
	assert.Equal(t, uint64(2), burns[0].Nonce)
}

func TestMarkBurnProcessedOnEthereum(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := solana.NewWallet().PublicKey()
	f.mint(t, ethcommon.HexToHash("0x04"), 100, user)
	burn, err := f.usecase.BurnWrapped(ctx, engine.BurnParams{Amount: 10, EthereumRecipient: ethRecipient, Owner: user})
	require.NoError(t, err)

	_, err = f.usecase.MarkBurnProcessedOnEthereum(ctx, user, burn.Nonce, user)
	assert.ErrorIs(t, err, engine.ErrUnauthorized)

	settled, err := f.usecase.MarkBurnProcessedOnEthereum(ctx, user, burn.Nonce, f.relayer)
	require.NoError(t, err)
	assert.True(t, settled.ProcessedOnEthereum)

	settled, err = f.usecase.MarkBurnProcessedOnEthereum(ctx, user, burn.Nonce, f.authority)
	require.NoError(t, err)
	assert.True(t, settled.ProcessedOnEthereum)

	_, err = f.usecase.MarkBurnProcessedOnEthereum(ctx, user, burn.Nonce+10, f.authority)
	assert.ErrorIs(t, err, errs.NotFound)

	pending, err := f.usecase.GetBurnTransactions(ctx, datagateway.GetBurnTransactionsParams{ProcessedOnEthereum: lo.ToPtr(false)})
	require.NoError(t, err)
	assert.Empty(t, pending)
}
