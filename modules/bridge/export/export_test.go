package export

import (
	"context"
	"math"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/modules/bridge/repository/badger"
	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, burns int) (*badger.Repository, solana.PublicKey) {
	t.Helper()
	db, err := badger.Open("")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := badger.NewRepository(db)
	owner := solana.NewWallet().PublicKey()
	for i := 0; i < burns; i++ {
		ok, err := repo.CreateBurnTransaction(context.Background(), entity.BurnTransaction{
			User:                owner,
			Amount:              uint64(100 + i),
			EthereumRecipient:   ethcommon.HexToAddress("0x00000000000000000000000000000000000000e1"),
			Timestamp:           time.Unix(1_700_000_000+int64(i), 0),
			Nonce:               uint64(i),
			ProcessedOnEthereum: i%2 == 0,
		})
		require.NoError(t, err)
		require.True(t, ok)
	}
	return repo, owner
}

func TestSnapshot(t *testing.T) {
	repo, owner := newTestRepository(t, 5)

	testCases := []struct {
		name          string
		pageSize      int32
		unsettledOnly bool
		expected      []string
	}{
		{name: "single page", pageSize: 10, expected: []string{"0", "1", "2", "3", "4"}},
		{name: "exact pages", pageSize: 5, expected: []string{"0", "1", "2", "3", "4"}},
		{name: "many pages", pageSize: 2, expected: []string{"0", "1", "2", "3", "4"}},
		{name: "unsettled only", pageSize: 1, unsettledOnly: true, expected: []string{"1", "3"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := NewExporter(repo, tc.pageSize).Snapshot(context.Background(), tc.unsettledOnly)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, lo.Map(records, func(r BurnRecord, _ int) string { return r.Nonce }))
			for _, r := range records {
				assert.Equal(t, owner.String(), r.Owner)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	repo, _ := newTestRepository(t, 3)
	records, err := NewExporter(repo, 0).Snapshot(context.Background(), false)
	require.NoError(t, err)

	data, err := Encode(records)
	require.NoError(t, err)
	assert.Equal(t, "PAR1", string(data[:4]))

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestEncodeFullUint64Range(t *testing.T) {
	burn := &entity.BurnTransaction{
		User:              solana.NewWallet().PublicKey(),
		Amount:            math.MaxUint64,
		EthereumRecipient: ethcommon.HexToAddress("0x00000000000000000000000000000000000000e1"),
		Timestamp:         time.Unix(1_700_000_000, 0),
		Nonce:             math.MaxUint64,
	}
	record := NewBurnRecord(burn)
	assert.Equal(t, "18446744073709551615", record.Nonce)
	assert.Equal(t, "18446744073709551615", record.Amount)

	data, err := Encode([]BurnRecord{record})
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []BurnRecord{record}, decoded)
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, time.March, 1, 12, 30, 5, 0, time.FixedZone("UTC+7", 7*60*60))
	assert.Equal(t, "burns-20240301T053005Z.parquet", ObjectKey("", at))
	assert.Equal(t, "bridge/exports/burns-20240301T053005Z.parquet", ObjectKey("bridge/exports", at))
}

func TestNewS3UploaderRequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), Config{})
	assert.Error(t, err)
}

type uploaderMock struct {
	key  string
	data []byte
}

func (u *uploaderMock) Upload(_ context.Context, key string, data []byte) (string, error) {
	u.key = key
	u.data = data
	return "mem://" + key, nil
}

func TestJob(t *testing.T) {
	repo, _ := newTestRepository(t, 4)
	uploader := &uploaderMock{}
	job := NewJob(NewExporter(repo, 0), uploader, Config{Prefix: "exports", UnsettledOnly: true})
	job.now = func() time.Time { return time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC) }

	location, err := job.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mem://exports/burns-20240102T030405Z.parquet", location)
	assert.Equal(t, "exports/burns-20240102T030405Z.parquet", uploader.key)

	records, err := Decode(uploader.data)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, lo.Map(records, func(r BurnRecord, _ int) string { return r.Nonce }))
}
