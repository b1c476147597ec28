package qchain

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

/*
Chain is the append-only ledger. Every mutation and every read goes through
one RWMutex, so a single writer mines while readers inspect the chain.
*/
type Chain struct {
	mu         sync.RWMutex
	blocks     []*Block
	difficulty int
	sim        Simulator

	// MiningReward is reserved for a future coinbase flow; no operation
	// spends it yet.
	MiningReward int
}

/*
NewChain builds a ledger over the given simulator and mines its genesis
block. The difficulty is fixed for the chain's lifetime.
*/
func NewChain(sim Simulator, difficulty int) (*Chain, error) {
	if sim == nil {
		return nil, fmt.Errorf("chain needs a simulator")
	}
	if difficulty < 0 {
		return nil, fmt.Errorf("difficulty must not be negative, got %d", difficulty)
	}

	genesis, err := NewBlock(sim, "Genesis Block", "0")
	if err != nil {
		return nil, fmt.Errorf("creating genesis block: %w", err)
	}
	genesis.Mine(difficulty)

	return &Chain{
		blocks:       []*Block{genesis},
		difficulty:   difficulty,
		sim:          sim,
		MiningReward: DefaultMiningReward,
	}, nil
}

// Append mines a block carrying data onto the end of the chain.
func (c *Chain) Append(data string) error {
	return c.append(context.Background(), data, false)
}

// AppendContext is Append with cancellable mining.
func (c *Chain) AppendContext(ctx context.Context, data string) error {
	return c.append(ctx, data, true)
}

func (c *Chain) append(ctx context.Context, data string, cancellable bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.blocks[len(c.blocks)-1]
	block, err := NewBlock(c.sim, data, prev.Hash)
	if err != nil {
		return fmt.Errorf("creating block: %w", err)
	}

	entangled, err := block.EntangledState(prev.QuantumState)
	if err != nil {
		return fmt.Errorf("entangling block: %w", err)
	}
	block.QuantumState = entangled
	if err := block.Refresh(); err != nil {
		return fmt.Errorf("refreshing block digests: %w", err)
	}

	if cancellable {
		if err := block.MineContext(ctx, c.difficulty); err != nil {
			return err
		}
	} else {
		block.Mine(c.difficulty)
	}

	c.blocks = append(c.blocks, block)
	return nil
}

/*
Validate walks the chain from the first non-genesis block and re-derives
everything it can: the classical hash, the link to the predecessor, the
quantum hash and the difficulty prefix. Any mismatch, or a block state the
simulator can no longer digest, makes the chain invalid.
*/
func (c *Chain) Validate() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validateLocked()
}

func (c *Chain) validateLocked() bool {
	target := miningTarget(c.difficulty)
	for i := 1; i < len(c.blocks); i++ {
		current := c.blocks[i]
		previous := c.blocks[i-1]

		if current.Hash != current.ComputeHash() {
			return false
		}
		if current.PreviousHash != previous.Hash {
			return false
		}
		quantumHash, err := current.ComputeQuantumHash()
		if err != nil || quantumHash != current.QuantumHash {
			return false
		}
		if !strings.HasPrefix(current.Hash, target) {
			return false
		}
	}
	return true
}

// Len returns the number of blocks.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// Difficulty returns the chain's fixed proof-of-work difficulty.
func (c *Chain) Difficulty() int {
	return c.difficulty
}

// Latest returns the newest block.
func (c *Chain) Latest() *Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1]
}

// Block returns the block at index, or false when index is out of range.
func (c *Chain) Block(index int) (*Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.blocks) {
		return nil, false
	}
	return c.blocks[index], true
}
