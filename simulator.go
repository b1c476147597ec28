package qchain

import (
	"errors"
	"fmt"
	"math/cmplx"
	"math/rand"
	"sync"
	"time"
)

// Errors shared by every Simulator implementation.
var (
	// ErrQubitOutOfRange flags a qubit index outside the register.
	ErrQubitOutOfRange = errors.New("qubit index out of range")

	// ErrDimensionMismatch flags operands whose register widths disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrUnknownObservable flags a Pauli label the simulator cannot parse.
	ErrUnknownObservable = errors.New("unknown observable")
)

/*
Simulator is the quantum back end the chain runs on. The chain never touches
amplitudes directly; everything quantum goes through this surface, so a
different provider can be swapped in without touching the ledger logic.
*/
type Simulator interface {
	// RandomState draws a Haar-random pure state on numQubits qubits.
	RandomState(numQubits int) (*StateVector, error)

	// Probabilities returns the basis-state distribution of state.
	Probabilities(state *StateVector) ([]float64, error)

	// Run executes a circuit from |0...0> and returns the final state.
	Run(circuit *Circuit) (*StateVector, error)

	// ReducedDensityMatrix traces the listed qubits out of a pure state.
	ReducedDensityMatrix(state *StateVector, traceOut []int) (*DensityMatrix, error)

	// DominantEigenvector returns the unit eigenvector belonging to the
	// largest eigenvalue of rho, along with that eigenvalue.
	DominantEigenvector(rho *DensityMatrix) (*StateVector, float64, error)

	// Eigenvalues returns the spectrum of rho.
	Eigenvalues(rho *DensityMatrix) ([]complex128, error)

	// ExpectationValue evaluates <state|P|state> for a Pauli label such as
	// "XX" or "ZZ". The rightmost label character addresses qubit 0.
	ExpectationValue(state *StateVector, observable string) (float64, error)
}

/*
StatevectorSimulator is the in-process Simulator. It is deterministic given
a seed, which keeps chains reproducible in tests and demos.
*/
type StatevectorSimulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// SimulatorOption configures a StatevectorSimulator.
type SimulatorOption func(*StatevectorSimulator)

// WithSeed pins the random source, making RandomState reproducible.
func WithSeed(seed int64) SimulatorOption {
	return func(s *StatevectorSimulator) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// NewStatevectorSimulator returns a simulator seeded from the clock unless
// WithSeed overrides it.
func NewStatevectorSimulator(opts ...SimulatorOption) *StatevectorSimulator {
	s := &StatevectorSimulator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

/*
RandomState draws amplitudes from independent complex Gaussians and
normalizes, which samples uniformly from the Haar measure on pure states.
*/
func (s *StatevectorSimulator) RandomState(numQubits int) (*StateVector, error) {
	if numQubits < 1 {
		return nil, fmt.Errorf("random state needs at least one qubit, got %d", numQubits)
	}
	amps := make([]complex128, 1<<numQubits)
	s.mu.Lock()
	for i := range amps {
		amps[i] = complex(s.rng.NormFloat64(), s.rng.NormFloat64())
	}
	s.mu.Unlock()

	state := &StateVector{Amplitudes: amps, NumQubits: numQubits}
	if err := state.Normalize(); err != nil {
		return nil, fmt.Errorf("random state draw: %w", err)
	}
	return state, nil
}

// Probabilities returns |amplitude|^2 per basis state.
func (s *StatevectorSimulator) Probabilities(state *StateVector) ([]float64, error) {
	if state == nil || len(state.Amplitudes) == 0 {
		return nil, fmt.Errorf("%w: empty state", ErrDimensionMismatch)
	}
	return state.Probabilities(), nil
}

// Run executes the circuit's instructions in order from |0...0>.
func (s *StatevectorSimulator) Run(circuit *Circuit) (*StateVector, error) {
	if circuit == nil {
		return nil, fmt.Errorf("cannot run a nil circuit")
	}
	state := NewStateVector(circuit.NumQubits)
	for i, op := range circuit.ops {
		switch op.kind {
		case opInitialize:
			if err := state.initializeSub(op.state, op.qubits); err != nil {
				return nil, fmt.Errorf("instruction %d: %w", i, err)
			}
		case opCX:
			state.applyCX(op.qubits[0], op.qubits[1])
		case opRY:
			state.applyRY(op.theta, op.qubits[0])
		case opH:
			state.applyH(op.qubits[0])
		case opNFT:
			// Ownership tags carry no unitary.
		}
	}
	return state, nil
}

// ReducedDensityMatrix traces the listed qubits out of state.
func (s *StatevectorSimulator) ReducedDensityMatrix(state *StateVector, traceOut []int) (*DensityMatrix, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: nil state", ErrDimensionMismatch)
	}
	return PartialTrace(state, traceOut)
}

/*
DominantEigenvector diagonalizes rho and returns the eigenvector of its
largest eigenvalue, renormalized to a valid pure state. The eigenvalue comes
along as the weight of the pure-state approximation: 1 means the matrix was
already pure, anything lower measures how much mixedness was discarded.
*/
func (s *StatevectorSimulator) DominantEigenvector(rho *DensityMatrix) (*StateVector, float64, error) {
	if rho == nil {
		return nil, 0, fmt.Errorf("%w: nil density matrix", ErrDimensionMismatch)
	}
	values, vectors, err := rho.Eigen()
	if err != nil {
		return nil, 0, err
	}
	state, err := StateVectorFromAmplitudes(vectors[0])
	if err != nil {
		return nil, 0, err
	}
	if err := state.Normalize(); err != nil {
		return nil, 0, err
	}
	return state, values[0], nil
}

// Eigenvalues returns the spectrum of rho, largest first.
func (s *StatevectorSimulator) Eigenvalues(rho *DensityMatrix) ([]complex128, error) {
	if rho == nil {
		return nil, fmt.Errorf("%w: nil density matrix", ErrDimensionMismatch)
	}
	return rho.Eigenvalues()
}

/*
ExpectationValue evaluates a Pauli-string observable. The label is read
right to left, rightmost character on qubit 0. Only I, X, Y and Z are
understood.
*/
func (s *StatevectorSimulator) ExpectationValue(state *StateVector, observable string) (float64, error) {
	if state == nil || len(state.Amplitudes) == 0 {
		return 0, fmt.Errorf("%w: empty state", ErrDimensionMismatch)
	}
	if len(observable) != state.NumQubits {
		return 0, fmt.Errorf("%w: label %q on a %d-qubit state", ErrUnknownObservable, observable, state.NumQubits)
	}

	phi := make([]complex128, len(state.Amplitudes))
	copy(phi, state.Amplitudes)
	next := make([]complex128, len(phi))

	for pos := 0; pos < len(observable); pos++ {
		qubit := len(observable) - 1 - pos
		bit := 1 << qubit
		switch observable[pos] {
		case 'I':
			continue
		case 'X':
			for i := range phi {
				next[i] = phi[i^bit]
			}
		case 'Y':
			for i := range phi {
				if i&bit != 0 {
					next[i] = complex(0, 1) * phi[i^bit]
				} else {
					next[i] = complex(0, -1) * phi[i^bit]
				}
			}
		case 'Z':
			for i := range phi {
				if i&bit != 0 {
					next[i] = -phi[i]
				} else {
					next[i] = phi[i]
				}
			}
		default:
			return 0, fmt.Errorf("%w: %q in label %q", ErrUnknownObservable, observable[pos], observable)
		}
		phi, next = next, phi
	}

	var expectation complex128
	for i, amplitude := range state.Amplitudes {
		expectation += cmplx.Conj(amplitude) * phi[i]
	}
	return real(expectation), nil
}
