// Package leveldb implements the ability to read and write blocks to a
// LevelDB database keyed by block number.
package leveldb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// blockPrefix is the key prefix for every stored block.
var blockPrefix = []byte("blk")

// LevelDB represents the serialization implementation for reading and storing
// blocks in a LevelDB database. This implements the storage.Serializer
// interface.
type LevelDB struct {
	db *leveldb.DB
}

// New opens (or creates when needed) the database at the specified path.
func New(dbPath string) (*LevelDB, error) {
	opts := opt.Options{
		Strict:      opt.DefaultStrict,
		Compression: opt.NoCompression,
	}

	db, err := leveldb.OpenFile(dbPath, &opts)
	if err != nil {
		return nil, convertLdbErr(err, "failed to open block database")
	}

	return &LevelDB{db: db}, nil
}

// Close closes the underlying database.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Write takes the specified block and stores it under its number. The
// previous block must already exist.
func (l *LevelDB) Write(blockData storage.BlockData) error {
	if blockData.Number > 0 {
		exists, err := l.db.Has(blockKey(blockData.Number-1), nil)
		if err != nil {
			return convertLdbErr(err, "failed to check previous block")
		}
		if !exists {
			return fmt.Errorf("%w: missing block %d", storage.ErrOutOfOrder, blockData.Number-1)
		}
	}

	exists, err := l.db.Has(blockKey(blockData.Number), nil)
	if err != nil {
		return convertLdbErr(err, "failed to check block")
	}
	if exists {
		return fmt.Errorf("%w: block %d already exists", storage.ErrOutOfOrder, blockData.Number)
	}

	data, err := json.Marshal(blockData)
	if err != nil {
		return err
	}

	if err := l.db.Put(blockKey(blockData.Number), data, &opt.WriteOptions{Sync: true}); err != nil {
		return convertLdbErr(err, fmt.Sprintf("failed to write block %d", blockData.Number))
	}

	return nil
}

// GetBlock locates and returns the contents of the specified block by number.
func (l *LevelDB) GetBlock(num uint64) (storage.BlockData, error) {
	data, err := l.db.Get(blockKey(num), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return storage.BlockData{}, fmt.Errorf("%w: %d", storage.ErrNotFound, num)
		}
		return storage.BlockData{}, convertLdbErr(err, fmt.Sprintf("failed to read block %d", num))
	}

	var blockData storage.BlockData
	if err := json.Unmarshal(data, &blockData); err != nil {
		return storage.BlockData{}, fmt.Errorf("decoding block %d: %w", num, err)
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with block number 0.
func (l *LevelDB) ForEach() storage.Iterator {
	return &levelDBIterator{storage: l}
}

// Reset removes every block from the database in a single batch.
func (l *LevelDB) Reset() error {
	iter := l.db.NewIterator(util.BytesPrefix(blockPrefix), nil)
	defer iter.Release()

	var batch leveldb.Batch
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return convertLdbErr(err, "failed to iterate blocks")
	}

	if err := l.db.Write(&batch, &opt.WriteOptions{Sync: true}); err != nil {
		return convertLdbErr(err, "failed to remove blocks")
	}

	return nil
}

// =============================================================================

// levelDBIterator represents the iteration implementation for walking
// through and reading blocks in the database. This implements the storage
// Iterator interface.
type levelDBIterator struct {
	storage *LevelDB // Access to the storage API.
	current uint64   // Current block number being iterated over.
	eoc     bool     // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from the database.
func (li *levelDBIterator) Next() (storage.BlockData, error) {
	if li.eoc {
		return storage.BlockData{}, storage.ErrEndOfChain
	}

	blockData, err := li.storage.GetBlock(li.current)
	if errors.Is(err, storage.ErrNotFound) {
		li.eoc = true
	}

	li.current++

	return blockData, err
}

// Done returns the end of chain value.
func (li *levelDBIterator) Done() bool {
	return li.eoc
}

// =============================================================================

// blockKey forms the database key for the specified block number. Numbers
// are big endian so keys sort in chain order.
func blockKey(num uint64) []byte {
	key := make([]byte, len(blockPrefix)+8)
	copy(key, blockPrefix)
	binary.BigEndian.PutUint64(key[len(blockPrefix):], num)
	return key
}

// convertLdbErr adds a description to the passed leveldb error and marks
// corruption so it is visible in the logs.
func convertLdbErr(ldbErr error, desc string) error {
	if ldberrors.IsCorrupted(ldbErr) {
		desc = "corrupted: " + desc
	}

	return fmt.Errorf("%s: %w", desc, ldbErr)
}
