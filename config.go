package qchain

import "math"

const (
	// BlockQubits is the register width of every block's quantum state.
	BlockQubits = 2

	// CoupledQubits is the width of the scratch register used when two
	// block states are loaded side by side.
	CoupledQubits = 2 * BlockQubits

	// DefaultDifficulty is the proof-of-work difficulty the server and
	// demos start from.
	DefaultDifficulty = 2

	// DefaultMiningReward is reserved for a future coinbase flow.
	DefaultMiningReward = 10

	// couplingAngle is the RY rotation applied while entangling.
	couplingAngle = math.Pi / 4
)

// Numerical guard rails shared by the simulator and the chain.
const (
	// eigenvalueFloor discards eigenvalues that are numerical noise and
	// keeps log2 finite inside the entropy sum.
	eigenvalueFloor = 1e-10

	// normTolerance bounds acceptable drift from unit norm.
	normTolerance = 1e-9

	jacobiTolerance = 1e-12
	maxJacobiSweeps = 100
)
