// Package storage defines the behavior required to persist the chain and
// the support for reading a stored chain back into memory.
package storage

import (
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/block"
)

// Set of errors shared by the storage implementations.
var (
	ErrOutOfOrder = errors.New("block is out of order")
	ErrNotFound   = errors.New("block does not exist")
	ErrEndOfChain = errors.New("end of chain")
)

// Serializer interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Serializer interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// BlockData represents what is written to storage for each block.
type BlockData struct {
	Number uint64      `json:"number"`
	Block  block.Block `json:"block"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(num uint64, blk block.Block) BlockData {
	return BlockData{
		Number: num,
		Block:  blk,
	}
}

// ReadAll walks the stored chain starting with block number 0 and returns
// every block in order.
func ReadAll(s Serializer) ([]block.Block, error) {
	var blocks []block.Block

	iter := s.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, blockData.Block)
	}

	return blocks, nil
}

// WriteAll resets the storage and writes the chain from block number 0.
func WriteAll(s Serializer, blocks []block.Block) error {
	if err := s.Reset(); err != nil {
		return err
	}

	for i, blk := range blocks {
		if err := s.Write(NewBlockData(uint64(i), blk)); err != nil {
			return err
		}
	}

	return nil
}
