package processor

import (
	"context"
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// TransferTopic is topic0 of the ERC-721 and ERC-20 Transfer event.
var TransferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

type SyntheticOptions struct {
	// End is the last height produced. A negative End never runs dry.
	End int64
	// Contract emits every generated log.
	Contract common.Address
	// LogsPerBlock is the number of Transfer logs per block.
	LogsPerBlock int
	// GenesisTime is the millisecond timestamp of height 0.
	GenesisTime int64
	// BlockTime is the spacing between blocks in milliseconds.
	BlockTime int64
}

// SyntheticSource generates deterministic blocks of Transfer logs. It
// needs no network access and always yields the same data for a height.
type SyntheticSource struct {
	opts SyntheticOptions
}

var _ Source = (*SyntheticSource)(nil)

func NewSyntheticSource(opts SyntheticOptions) *SyntheticSource {
	if opts.LogsPerBlock < 0 {
		opts.LogsPerBlock = 0
	}
	if opts.BlockTime <= 0 {
		opts.BlockTime = 12_000
	}
	return &SyntheticSource{opts: opts}
}

func (s *SyntheticSource) Next(ctx context.Context, from int64, limit int) ([]Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if from < 0 {
		from = 0
	}
	var blocks []Block
	for h := from; len(blocks) < limit; h++ {
		if s.opts.End >= 0 && h > s.opts.End {
			break
		}
		blocks = append(blocks, s.Block(h))
	}
	return blocks, nil
}

// Block returns the block at height.
func (s *SyntheticSource) Block(height int64) Block {
	header := BlockHeader{
		Height:     height,
		Hash:       blockHash(height),
		ParentHash: blockHash(height - 1),
		Timestamp:  s.opts.GenesisTime + height*s.opts.BlockTime,
	}

	logs := make([]Log, 0, s.opts.LogsPerBlock)
	for i := range s.opts.LogsPerBlock {
		seed := crypto.Keccak256(header.Hash.Bytes(), big.NewInt(int64(i)).Bytes())
		from := common.BytesToAddress(seed[:20])
		to := common.BytesToAddress(seed[12:])
		tokenID := new(big.Int).SetUint64(binary.BigEndian.Uint64(seed[24:]) % 10_000)

		logs = append(logs, Log{
			ID:       LogID(height, header.Hash, i),
			LogIndex: i,
			Address:  s.opts.Contract,
			Topics: []common.Hash{
				TransferTopic,
				common.BytesToHash(from.Bytes()),
				common.BytesToHash(to.Bytes()),
				common.BigToHash(tokenID),
			},
			TransactionHash: crypto.Keccak256Hash(seed),
		})
	}
	return Block{Header: header, Logs: logs}
}

func blockHash(height int64) common.Hash {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(height))
	return crypto.Keccak256Hash([]byte("kwilsquid-synthetic"), buf[:])
}
