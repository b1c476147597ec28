package qchain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

/*
Block is one entry in the chain. Beyond the classical fields it carries a
two-qubit state whose probability distribution is digested into QuantumHash,
which in turn feeds Hash. Both digests are caches, never trusted: validation
re-derives and compares.
*/
type Block struct {
	Timestamp    time.Time
	Data         string
	PreviousHash string
	Nonce        uint64
	QuantumState *StateVector
	QuantumHash  string
	Hash         string

	sim Simulator
}

// BlockOption configures a block before its digests are computed.
type BlockOption func(*Block)

// WithQuantumState pins the block's quantum state instead of drawing a
// random one.
func WithQuantumState(state *StateVector) BlockOption {
	return func(b *Block) {
		b.QuantumState = state
	}
}

// WithNonce sets the starting nonce.
func WithNonce(nonce uint64) BlockOption {
	return func(b *Block) {
		b.Nonce = nonce
	}
}

// WithTimestamp pins the creation time, which pins the classical hash.
func WithTimestamp(ts time.Time) BlockOption {
	return func(b *Block) {
		b.Timestamp = ts
	}
}

/*
NewBlock assembles a block over the given simulator and computes both
digests. Without WithQuantumState the block draws a fresh random two-qubit
state, so two blocks with identical classical content still hash apart.
*/
func NewBlock(sim Simulator, data, previousHash string, opts ...BlockOption) (*Block, error) {
	if sim == nil {
		return nil, fmt.Errorf("block needs a simulator")
	}
	b := &Block{
		Timestamp:    time.Now(),
		Data:         data,
		PreviousHash: previousHash,
		sim:          sim,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.QuantumState == nil {
		state, err := sim.RandomState(BlockQubits)
		if err != nil {
			return nil, fmt.Errorf("drawing block state: %w", err)
		}
		b.QuantumState = state
	}
	if err := b.Refresh(); err != nil {
		return nil, err
	}
	return b, nil
}

/*
ComputeQuantumHash digests the basis-state probabilities of the block state:
each probability rendered with ten decimals, concatenated in index order and
run through SHA-256. Probabilities make the digest insensitive to global
phase while still pinning the distribution.
*/
func (b *Block) ComputeQuantumHash() (string, error) {
	probs, err := b.sim.Probabilities(b.QuantumState)
	if err != nil {
		return "", fmt.Errorf("computing quantum hash: %w", err)
	}
	var sb strings.Builder
	for _, p := range probs {
		fmt.Fprintf(&sb, "%.10f", p)
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:]), nil
}

/*
ComputeHash digests the classical block content: timestamp, data, previous
hash, quantum hash and nonce, concatenated in that order. The stored
QuantumHash is part of the preimage, so refreshing it invalidates Hash.
*/
func (b *Block) ComputeHash() string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatInt(b.Timestamp.UnixNano(), 10))
	sb.WriteString(b.Data)
	sb.WriteString(b.PreviousHash)
	sb.WriteString(b.QuantumHash)
	sb.WriteString(strconv.FormatUint(b.Nonce, 10))
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// Refresh recomputes and stores both digests from the current field values.
func (b *Block) Refresh() error {
	quantumHash, err := b.ComputeQuantumHash()
	if err != nil {
		return err
	}
	b.QuantumHash = quantumHash
	b.Hash = b.ComputeHash()
	return nil
}

/*
EntangledState couples a predecessor state with this block's own state. Both
registers are loaded side by side, CX gates tie each predecessor qubit to
its partner, RY rotations stir the pair, and the predecessor side is traced
out. What survives is the dominant eigenvector of the remaining mixed state,
renormalized into the block's new state. The receiver is left untouched;
the caller decides whether to adopt the result.
*/
func (b *Block) EntangledState(prev *StateVector) (*StateVector, error) {
	if prev == nil || prev.NumQubits != BlockQubits {
		return nil, fmt.Errorf("%w: predecessor state must span %d qubits", ErrDimensionMismatch, BlockQubits)
	}
	if b.QuantumState == nil || b.QuantumState.NumQubits != BlockQubits {
		return nil, fmt.Errorf("%w: block state must span %d qubits", ErrDimensionMismatch, BlockQubits)
	}

	low, high := coupledRegisters()
	circuit, err := NewCircuit(CoupledQubits)
	if err != nil {
		return nil, err
	}
	if err := circuit.Initialize(prev, low...); err != nil {
		return nil, err
	}
	if err := circuit.Initialize(b.QuantumState, high...); err != nil {
		return nil, err
	}
	for q := 0; q < BlockQubits; q++ {
		if err := circuit.CX(low[q], high[q]); err != nil {
			return nil, err
		}
	}
	if err := circuit.RY(couplingAngle, low[0]); err != nil {
		return nil, err
	}
	if err := circuit.RY(couplingAngle, high[0]); err != nil {
		return nil, err
	}

	coupled, err := b.sim.Run(circuit)
	if err != nil {
		return nil, fmt.Errorf("coupling states: %w", err)
	}
	reduced, err := b.sim.ReducedDensityMatrix(coupled, low)
	if err != nil {
		return nil, fmt.Errorf("reducing coupled state: %w", err)
	}
	state, _, err := b.sim.DominantEigenvector(reduced)
	if err != nil {
		return nil, fmt.Errorf("extracting entangled state: %w", err)
	}
	return state, nil
}
