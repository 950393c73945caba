// Package export snapshots the burn log into a parquet file for the source-chain release tooling.
package export

import (
	"context"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gaze-network/bridge-network/pkg/logger"
	"github.com/gaze-network/bridge-network/pkg/logger/slogx"
	"github.com/gaze-network/bridge-network/pkg/parquetutils"
	"github.com/samber/lo"
)

const DefaultPageSize = 1000

type Config struct {
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"` // optional, for S3 compatible storage

	// UnsettledOnly exports only burns not yet released on the source chain.
	UnsettledOnly bool          `mapstructure:"unsettled_only"`
	PageSize      int32         `mapstructure:"page_size"`
	Interval      time.Duration `mapstructure:"interval"` // Periodic upload interval of the run command, 0 disables it.
}

// BurnRecord is one row of the exported burn log. Nonces and amounts are decimal strings to keep the full uint64 range.
type BurnRecord struct {
	Owner               string `parquet:"name=owner, type=BYTE_ARRAY, convertedtype=UTF8"`
	Nonce               string `parquet:"name=nonce, type=BYTE_ARRAY, convertedtype=UTF8"`
	Amount              string `parquet:"name=amount, type=BYTE_ARRAY, convertedtype=UTF8"`
	EthereumRecipient   string `parquet:"name=ethereum_recipient, type=BYTE_ARRAY, convertedtype=UTF8"`
	Timestamp           int64  `parquet:"name=timestamp, type=INT64"`
	ProcessedOnEthereum bool   `parquet:"name=processed_on_ethereum, type=BOOLEAN"`
}

func NewBurnRecord(burn *entity.BurnTransaction) BurnRecord {
	return BurnRecord{
		Owner:               burn.User.String(),
		Nonce:               strconv.FormatUint(burn.Nonce, 10),
		Amount:              strconv.FormatUint(burn.Amount, 10),
		EthereumRecipient:   burn.EthereumRecipient.Hex(),
		Timestamp:           burn.Timestamp.Unix(),
		ProcessedOnEthereum: burn.ProcessedOnEthereum,
	}
}

type Exporter struct {
	bridgeDg datagateway.BridgeReaderDataGateway
	pageSize int32
}

func NewExporter(bridgeDg datagateway.BridgeReaderDataGateway, pageSize int32) *Exporter {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Exporter{
		bridgeDg: bridgeDg,
		pageSize: pageSize,
	}
}

// Snapshot reads the whole burn log in nonce order.
func (e *Exporter) Snapshot(ctx context.Context, unsettledOnly bool) ([]BurnRecord, error) {
	params := datagateway.GetBurnTransactionsParams{Limit: e.pageSize}
	if unsettledOnly {
		params.ProcessedOnEthereum = lo.ToPtr(false)
	}

	records := make([]BurnRecord, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}
		burns, err := e.bridgeDg.GetBurnTransactions(ctx, params)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get burns from nonce %d", params.FromNonce)
		}
		for _, burn := range burns {
			records = append(records, NewBurnRecord(burn))
		}
		if len(burns) < int(params.Limit) {
			break
		}
		params.FromNonce = burns[len(burns)-1].Nonce + 1
	}

	logger.DebugContext(ctx, "Burn log snapshot taken",
		slogx.Int("records", len(records)),
		slogx.Bool("unsettled_only", unsettledOnly),
	)
	return records, nil
}

// Encode writes records as a parquet file in memory.
func Encode(records []BurnRecord) ([]byte, error) {
	buf := parquetutils.NewBuffer()
	if err := parquetutils.WriteAll(buf, records); err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}

// Decode reads a parquet file produced by Encode.
func Decode(data []byte) ([]BurnRecord, error) {
	records, err := parquetutils.ReadAll[BurnRecord](parquetutils.NewBufferFile(data))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return records, nil
}

// ObjectKey names a snapshot taken at t.
func ObjectKey(prefix string, t time.Time) string {
	name := "burns-" + t.UTC().Format("20060102T150405Z") + ".parquet"
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
