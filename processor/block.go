package processor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/smallnest/kwilsquid/store"
)

// BlockHeader identifies a block.
type BlockHeader struct {
	Height     int64       `json:"height"`
	Hash       common.Hash `json:"hash"`
	ParentHash common.Hash `json:"parentHash"`
	// Timestamp in milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// HashAndHeight converts the header to a checkpoint.
func (h BlockHeader) HashAndHeight() store.HashAndHeight {
	return store.HashAndHeight{Height: h.Height, Hash: h.Hash.Hex()}
}

// Log is an event emitted by a contract.
type Log struct {
	ID              string         `json:"id"`
	LogIndex        int            `json:"logIndex"`
	Address         common.Address `json:"address"`
	Topics          []common.Hash  `json:"topics"`
	Data            []byte         `json:"data"`
	TransactionHash common.Hash    `json:"transactionHash"`
}

// LogID formats a log id that sorts by height and position.
func LogID(height int64, blockHash common.Hash, index int) string {
	return fmt.Sprintf("%010d-%s-%06d", height, blockHash.Hex()[2:7], index)
}

type Block struct {
	Header BlockHeader `json:"header"`
	Logs   []Log       `json:"logs"`
}

// Source yields blocks in ascending height order.
type Source interface {
	// Next returns up to limit consecutive blocks starting at height from.
	// An empty result means no block at that height is available yet.
	Next(ctx context.Context, from int64, limit int) ([]Block, error)
}
