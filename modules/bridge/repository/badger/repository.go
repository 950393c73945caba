// Package badger stores bridge records in an embedded badger database using
// the on-chain account layout. Writers are serialized by a process-wide lock,
// so a single process must own the database directory.
package badger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dgraph-io/badger/v3"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/modules/bridge/datagateway"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/account"
	"github.com/gaze-network/bridge-network/modules/bridge/internal/entity"
	"github.com/gagliardetto/solana-go"
)

var _ datagateway.BridgeDataGateway = (*Repository)(nil)

// Nonces are zero-padded so that lexicographic key order matches numeric order.
const (
	keyBridgeState     = "bridge/state"
	prefixProcessed    = "bridge/processed/"
	prefixBurn         = "bridge/burn/"
	prefixBurnNonce    = "bridge/burn-nonce/"
	nonceKeyFormat     = "%020d"
	burnKeyFormat      = prefixBurn + "%s/" + nonceKeyFormat
	burnNonceKeyFormat = prefixBurnNonce + nonceKeyFormat
)

type Repository struct {
	db  *badger.DB
	mu  *sync.Mutex
	txn *badger.Txn
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db: db,
		mu: &sync.Mutex{},
	}
}

// Open opens a badger database at dir. An empty dir opens an in-memory database.
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open badger database")
	}
	return db, nil
}

func processedKey(hash ethcommon.Hash) []byte {
	return []byte(prefixProcessed + hash.Hex())
}

func burnKey(owner solana.PublicKey, nonce uint64) []byte {
	return []byte(fmt.Sprintf(burnKeyFormat, owner.String(), nonce))
}

func burnOwnerPrefix(owner solana.PublicKey) []byte {
	return []byte(prefixBurn + owner.String() + "/")
}

func burnNonceKey(nonce uint64) []byte {
	return []byte(fmt.Sprintf(burnNonceKeyFormat, nonce))
}

// view runs fn in the open transaction, or in a new read-only one.
func (r *Repository) view(fn func(txn *badger.Txn) error) error {
	if r.txn != nil {
		return fn(r.txn)
	}
	return r.db.View(fn)
}

// update runs fn in the open transaction, or in a new serialized read-write one.
func (r *Repository) update(fn func(txn *badger.Txn) error) error {
	if r.txn != nil {
		return fn(r.txn)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.Update(fn)
}

func getValue(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrapf(err, "failed to get key %s", key)
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read value of key %s", key)
	}
	return value, nil
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return false, errors.Wrapf(err, "failed to get key %s", key)
}

func (r *Repository) GetBridgeState(ctx context.Context) (*entity.BridgeState, error) {
	var state entity.BridgeState
	err := r.view(func(txn *badger.Txn) error {
		value, err := getValue(txn, []byte(keyBridgeState))
		if err != nil {
			return errors.WithStack(err)
		}
		state, err = account.DecodeBridgeState(value)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &state, nil
}

// LockBridgeState reads the bridge state. Outside a transaction it behaves like GetBridgeState,
// inside one the state is already held exclusively since BeginBridgeTx.
func (r *Repository) LockBridgeState(ctx context.Context) (*entity.BridgeState, error) {
	return r.GetBridgeState(ctx)
}

func (r *Repository) CreateBridgeState(ctx context.Context, state entity.BridgeState) (bool, error) {
	data, err := account.EncodeBridgeState(state)
	if err != nil {
		return false, errors.Wrap(err, "failed to encode bridge state")
	}
	return r.createIfAbsent([]byte(keyBridgeState), data)
}

func (r *Repository) UpdateBridgeState(ctx context.Context, state entity.BridgeState) error {
	data, err := account.EncodeBridgeState(state)
	if err != nil {
		return errors.Wrap(err, "failed to encode bridge state")
	}
	err = r.update(func(txn *badger.Txn) error {
		ok, err := exists(txn, []byte(keyBridgeState))
		if err != nil {
			return errors.WithStack(err)
		}
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		return errors.WithStack(txn.Set([]byte(keyBridgeState), data))
	})
	return errors.WithStack(err)
}

func (r *Repository) GetProcessedTransaction(ctx context.Context, ethereumTxHash ethcommon.Hash) (*entity.ProcessedTransaction, error) {
	var processed entity.ProcessedTransaction
	err := r.view(func(txn *badger.Txn) error {
		value, err := getValue(txn, processedKey(ethereumTxHash))
		if err != nil {
			return errors.WithStack(err)
		}
		processed, err = account.DecodeProcessedTransaction(value)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &processed, nil
}

func (r *Repository) CreateProcessedTransaction(ctx context.Context, tx entity.ProcessedTransaction) (bool, error) {
	data, err := account.EncodeProcessedTransaction(tx)
	if err != nil {
		return false, errors.Wrap(err, "failed to encode processed transaction")
	}
	return r.createIfAbsent(processedKey(tx.EthereumTxHash), data)
}

func (r *Repository) GetBurnTransaction(ctx context.Context, owner solana.PublicKey, nonce uint64) (*entity.BurnTransaction, error) {
	var burn entity.BurnTransaction
	err := r.view(func(txn *badger.Txn) error {
		value, err := getValue(txn, burnKey(owner, nonce))
		if err != nil {
			return errors.WithStack(err)
		}
		burn, err = account.DecodeBurnTransaction(value)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &burn, nil
}

func (r *Repository) GetBurnTransactions(ctx context.Context, params datagateway.GetBurnTransactionsParams) ([]*entity.BurnTransaction, error) {
	burns := make([]*entity.BurnTransaction, 0)
	full := func() bool {
		return params.Limit > 0 && len(burns) >= int(params.Limit)
	}
	collect := func(value []byte) error {
		burn, err := account.DecodeBurnTransaction(value)
		if err != nil {
			return errors.WithStack(err)
		}
		if params.ProcessedOnEthereum != nil && burn.ProcessedOnEthereum != *params.ProcessedOnEthereum {
			return nil
		}
		burns = append(burns, &burn)
		return nil
	}

	err := r.view(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		if params.Owner != nil {
			opts.Prefix = burnOwnerPrefix(*params.Owner)
			it := txn.NewIterator(opts)
			defer it.Close()
			for it.Seek(burnKey(*params.Owner, params.FromNonce)); it.Valid() && !full(); it.Next() {
				value, err := it.Item().ValueCopy(nil)
				if err != nil {
					return errors.WithStack(err)
				}
				if err := collect(value); err != nil {
					return errors.WithStack(err)
				}
			}
			return nil
		}

		// nonces are unique across owners, walk the nonce index to keep global ordering
		opts.Prefix = []byte(prefixBurnNonce)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(burnNonceKey(params.FromNonce)); it.Valid() && !full(); it.Next() {
			ownerBytes, err := it.Item().ValueCopy(nil)
			if err != nil {
				return errors.WithStack(err)
			}
			if len(ownerBytes) != solana.PublicKeyLength {
				return errors.Wrapf(errs.InvalidArgument, "corrupted burn index %s", it.Item().Key())
			}
			nonce, err := strconv.ParseUint(strings.TrimPrefix(string(it.Item().Key()), prefixBurnNonce), 10, 64)
			if err != nil {
				return errors.Wrapf(errs.InvalidArgument, "corrupted burn index %s", it.Item().Key())
			}
			value, err := getValue(txn, burnKey(solana.PublicKeyFromBytes(ownerBytes), nonce))
			if err != nil {
				return errors.Wrap(err, "burn index points to a missing record")
			}
			if err := collect(value); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return burns, nil
}

func (r *Repository) CreateBurnTransaction(ctx context.Context, tx entity.BurnTransaction) (bool, error) {
	data, err := account.EncodeBurnTransaction(tx)
	if err != nil {
		return false, errors.Wrap(err, "failed to encode burn transaction")
	}
	var created bool
	err = r.update(func(txn *badger.Txn) error {
		key := burnKey(tx.User, tx.Nonce)
		ok, err := exists(txn, key)
		if err != nil {
			return errors.WithStack(err)
		}
		if ok {
			return nil
		}
		indexed, err := exists(txn, burnNonceKey(tx.Nonce))
		if err != nil {
			return errors.WithStack(err)
		}
		if indexed {
			return errors.Wrapf(errs.Conflict, "burn nonce %d is already used", tx.Nonce)
		}
		if err := txn.Set(key, data); err != nil {
			return errors.WithStack(err)
		}
		if err := txn.Set(burnNonceKey(tx.Nonce), tx.User.Bytes()); err != nil {
			return errors.WithStack(err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, errors.WithStack(err)
	}
	return created, nil
}

func (r *Repository) SetBurnTransactionProcessedOnEthereum(ctx context.Context, owner solana.PublicKey, nonce uint64) (bool, error) {
	var updated bool
	err := r.update(func(txn *badger.Txn) error {
		key := burnKey(owner, nonce)
		value, err := getValue(txn, key)
		if err != nil {
			return errors.WithStack(err)
		}
		burn, err := account.DecodeBurnTransaction(value)
		if err != nil {
			return errors.WithStack(err)
		}
		if burn.ProcessedOnEthereum {
			return nil
		}
		burn.ProcessedOnEthereum = true
		data, err := account.EncodeBurnTransaction(burn)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := txn.Set(key, data); err != nil {
			return errors.WithStack(err)
		}
		updated = true
		return nil
	})
	if err != nil {
		return false, errors.WithStack(err)
	}
	return updated, nil
}

func (r *Repository) createIfAbsent(key, data []byte) (bool, error) {
	var created bool
	err := r.update(func(txn *badger.Txn) error {
		ok, err := exists(txn, key)
		if err != nil {
			return errors.WithStack(err)
		}
		if ok {
			return nil
		}
		if err := txn.Set(key, data); err != nil {
			return errors.WithStack(err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, errors.WithStack(err)
	}
	return created, nil
}
