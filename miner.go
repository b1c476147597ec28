package qchain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// ErrMiningExhausted reports a bounded mining run that ran out of attempts
// before hitting the difficulty target.
var ErrMiningExhausted = errors.New("mining attempts exhausted")

// miningLogInterval spaces the progress logs of long mining runs.
const miningLogInterval = 1 << 20

/*
Mine searches for a nonce whose block hash starts with difficulty leading
zeros. The search is unbounded: with a real difficulty it terminates with
probability one, but there is no upper bound on attempts. Use MineContext or
MineBounded when the caller needs a way out.
*/
func (b *Block) Mine(difficulty int) {
	target := miningTarget(difficulty)
	var attempts uint64
	for !strings.HasPrefix(b.Hash, target) {
		b.Nonce++
		b.Hash = b.ComputeHash()
		attempts++
		if attempts%miningLogInterval == 0 {
			log.Printf("mining block: %d attempts at difficulty %d", attempts, difficulty)
		}
	}
}

/*
MineContext is Mine with a cancellation hook: the context is polled every
iteration and cancelling it stops the search with the context's error. The
block keeps whatever nonce the search had reached.
*/
func (b *Block) MineContext(ctx context.Context, difficulty int) error {
	target := miningTarget(difficulty)
	var attempts uint64
	for !strings.HasPrefix(b.Hash, target) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("mining cancelled after %d attempts: %w", attempts, ctx.Err())
		default:
		}
		b.Nonce++
		b.Hash = b.ComputeHash()
		attempts++
		if attempts%miningLogInterval == 0 {
			log.Printf("mining block: %d attempts at difficulty %d", attempts, difficulty)
		}
	}
	return nil
}

/*
MineBounded is Mine with an attempt budget. It returns ErrMiningExhausted
when the budget runs out first, leaving the block unmined at whatever nonce
the search reached.
*/
func (b *Block) MineBounded(difficulty int, maxAttempts uint64) error {
	target := miningTarget(difficulty)
	for attempts := uint64(0); !strings.HasPrefix(b.Hash, target); attempts++ {
		if attempts >= maxAttempts {
			return fmt.Errorf("difficulty %d unmet: %w", difficulty, ErrMiningExhausted)
		}
		b.Nonce++
		b.Hash = b.ComputeHash()
	}
	return nil
}

func miningTarget(difficulty int) string {
	if difficulty < 0 {
		difficulty = 0
	}
	return strings.Repeat("0", difficulty)
}
