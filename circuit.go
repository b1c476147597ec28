package qchain

import "fmt"

// opKind enumerates the instructions a circuit can carry.
type opKind int

const (
	opInitialize opKind = iota
	opCX
	opRY
	opH
	opNFT
)

// operation is one recorded instruction.
type operation struct {
	kind   opKind
	qubits []int
	theta  float64
	state  *StateVector
	nft    *QuantumNFT
}

/*
Circuit is an ordered list of instructions over a fixed-width register. It is
a description only: building one performs no simulation, a Simulator's Run
does. Qubit indices are validated while building so Run can assume a
well-formed program.
*/
type Circuit struct {
	NumQubits int
	ops       []operation
}

// NewCircuit returns an empty circuit over numQubits qubits.
func NewCircuit(numQubits int) (*Circuit, error) {
	if numQubits < 1 {
		return nil, fmt.Errorf("circuit needs at least one qubit, got %d", numQubits)
	}
	return &Circuit{NumQubits: numQubits}, nil
}

func (c *Circuit) checkQubit(q int) error {
	if q < 0 || q >= c.NumQubits {
		return fmt.Errorf("%w: qubit %d on a %d-qubit circuit", ErrQubitOutOfRange, q, c.NumQubits)
	}
	return nil
}

/*
Initialize loads state onto the given qubits, which must match the state's
register width. The instruction is only recorded here; Run rejects it when
the target qubits are no longer in |0>.
*/
func (c *Circuit) Initialize(state *StateVector, qubits ...int) error {
	if state == nil {
		return fmt.Errorf("cannot initialize from a nil state")
	}
	if len(qubits) != state.NumQubits {
		return fmt.Errorf("%w: %d qubits for a %d-qubit state", ErrDimensionMismatch, len(qubits), state.NumQubits)
	}
	for _, q := range qubits {
		if err := c.checkQubit(q); err != nil {
			return err
		}
	}
	c.ops = append(c.ops, operation{
		kind:   opInitialize,
		qubits: append([]int(nil), qubits...),
		state:  state.Clone(),
	})
	return nil
}

// CX appends a controlled-X from control onto target.
func (c *Circuit) CX(control, target int) error {
	if err := c.checkQubit(control); err != nil {
		return err
	}
	if err := c.checkQubit(target); err != nil {
		return err
	}
	if control == target {
		return fmt.Errorf("cx control and target are both qubit %d", control)
	}
	c.ops = append(c.ops, operation{kind: opCX, qubits: []int{control, target}})
	return nil
}

// RY appends a Y-axis rotation by theta on the given qubit.
func (c *Circuit) RY(theta float64, qubit int) error {
	if err := c.checkQubit(qubit); err != nil {
		return err
	}
	c.ops = append(c.ops, operation{kind: opRY, qubits: []int{qubit}, theta: theta})
	return nil
}

// H appends a Hadamard on the given qubit.
func (c *Circuit) H(qubit int) error {
	if err := c.checkQubit(qubit); err != nil {
		return err
	}
	c.ops = append(c.ops, operation{kind: opH, qubits: []int{qubit}})
	return nil
}

/*
AttachNFT records an ownership tag across the given qubits. With no explicit
qubits the tag spans the low qubits of the register. Tags carry no unitary,
so attaching one never changes what the circuit computes; it rides along
with the description the way a barrier annotation would.
*/
func (c *Circuit) AttachNFT(nft *QuantumNFT, qubits ...int) error {
	if nft == nil {
		return fmt.Errorf("cannot attach a nil token")
	}
	if len(qubits) == 0 {
		if nft.NumQubits() > c.NumQubits {
			return fmt.Errorf("%w: %d-qubit token on a %d-qubit circuit", ErrDimensionMismatch, nft.NumQubits(), c.NumQubits)
		}
		for q := 0; q < nft.NumQubits(); q++ {
			qubits = append(qubits, q)
		}
	}
	if len(qubits) != nft.NumQubits() {
		return fmt.Errorf("%w: %d qubits for a %d-qubit token", ErrDimensionMismatch, len(qubits), nft.NumQubits())
	}
	for _, q := range qubits {
		if err := c.checkQubit(q); err != nil {
			return err
		}
	}
	c.ops = append(c.ops, operation{
		kind:   opNFT,
		qubits: append([]int(nil), qubits...),
		nft:    nft,
	})
	return nil
}

// Size returns the number of recorded instructions.
func (c *Circuit) Size() int {
	return len(c.ops)
}

// NFTs returns the tokens attached to the circuit, in attachment order.
func (c *Circuit) NFTs() []*QuantumNFT {
	var tags []*QuantumNFT
	for _, op := range c.ops {
		if op.kind == opNFT {
			tags = append(tags, op.nft)
		}
	}
	return tags
}

// coupledRegisters returns the qubit indices of the predecessor side and
// the block side of the coupling register.
func coupledRegisters() (low, high []int) {
	low = make([]int, BlockQubits)
	high = make([]int, BlockQubits)
	for q := 0; q < BlockQubits; q++ {
		low[q] = q
		high[q] = q + BlockQubits
	}
	return low, high
}
