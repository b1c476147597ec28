package qchain

import "math"

/*
EntanglementMeasure returns the von Neumann entropy shared between the block
at index and its predecessor.

The measurement is a different procedure from the coupling performed while
a block is appended. Appending runs CX and RY gates before reducing, which
is what ties the registers together. Measuring loads the two stored states
side by side with no gates at all, traces out the block's own side and
computes the entropy of what remains. Juxtaposing two pure states yields a
product state, so the reduction stays pure and the measure reads zero;
anything above zero means the stored pair no longer factorizes.

The entropy is summed over the significant eigenvalues only, with a small
floor inside the logarithm to keep it finite, and the result is clamped at
zero so rounding can never report negative entanglement. For a register of
BlockQubits qubits the measure is bounded by BlockQubits bits.

Index 0 has no predecessor and out-of-range indices address nothing; both
measure zero.
*/
func (c *Chain) EntanglementMeasure(index int) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entanglementLocked(index)
}

func (c *Chain) entanglementLocked(index int) float64 {
	if index <= 0 || index >= len(c.blocks) {
		return 0
	}
	previous := c.blocks[index-1]
	current := c.blocks[index]

	low, high := coupledRegisters()
	circuit, err := NewCircuit(CoupledQubits)
	if err != nil {
		return 0
	}
	if err := circuit.Initialize(previous.QuantumState, low...); err != nil {
		return 0
	}
	if err := circuit.Initialize(current.QuantumState, high...); err != nil {
		return 0
	}

	state, err := c.sim.Run(circuit)
	if err != nil {
		return 0
	}
	reduced, err := c.sim.ReducedDensityMatrix(state, high)
	if err != nil {
		return 0
	}
	eigenvalues, err := c.sim.Eigenvalues(reduced)
	if err != nil {
		return 0
	}

	var entropy float64
	for _, ev := range eigenvalues {
		p := real(ev)
		if p > eigenvalueFloor {
			entropy -= p * math.Log2(p+eigenvalueFloor)
		}
	}
	if entropy < 0 {
		return 0
	}
	return entropy
}

/*
VerifyBlock runs the quantum checks on a single block: its XX and ZZ
expectation values must sit inside the physical [-1, 1] band, and its stored
quantum hash must match a fresh derivation of the state's probability
digest.

Unlike every other operation, simulator failures are contained here and
reported as a failed verification. This is the probe tooling reaches for
when a block is already suspect, so a state the simulator can no longer
process is exactly what the caller is asking about.
*/
func (c *Chain) VerifyBlock(index int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if index < 0 || index >= len(c.blocks) {
		return false
	}
	block := c.blocks[index]

	for _, observable := range []string{"XX", "ZZ"} {
		value, err := c.sim.ExpectationValue(block.QuantumState, observable)
		if err != nil {
			return false
		}
		if math.Abs(value) > 1+normTolerance {
			return false
		}
	}

	quantumHash, err := block.ComputeQuantumHash()
	if err != nil {
		return false
	}
	return quantumHash == block.QuantumHash
}
