package qchain

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
	"math/rand"
)

/*
StateVector holds the amplitudes of a pure quantum state over a register of
qubits. Qubit q maps to bit 1<<q of the amplitude index, so qubit 0 is the
least significant bit and the basis state |q1 q0> = |10> sits at index 2.
*/
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector returns |0...0> on numQubits qubits. numQubits must be at
// least 1.
func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

/*
StateVectorFromAmplitudes wraps a raw amplitude slice. The length must be a
power of two and at least two; the amplitudes are copied, not shared.
*/
func StateVectorFromAmplitudes(amps []complex128) (*StateVector, error) {
	n := len(amps)
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d amplitudes do not form a qubit register", ErrDimensionMismatch, n)
	}
	out := make([]complex128, n)
	copy(out, amps)
	return &StateVector{Amplitudes: out, NumQubits: bits.Len(uint(n)) - 1}, nil
}

// Clone returns an independent copy of the state.
func (sv *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(sv.Amplitudes))
	copy(amps, sv.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: sv.NumQubits}
}

// Dim returns the number of basis states.
func (sv *StateVector) Dim() int {
	return len(sv.Amplitudes)
}

// Probabilities returns |amplitude|^2 for every basis state in index order.
func (sv *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(sv.Amplitudes))
	for i, amplitude := range sv.Amplitudes {
		p := cmplx.Abs(amplitude)
		probs[i] = p * p
	}
	return probs
}

// Norm returns the Euclidean norm of the amplitude vector.
func (sv *StateVector) Norm() float64 {
	var sum float64
	for _, amplitude := range sv.Amplitudes {
		sum += real(amplitude)*real(amplitude) + imag(amplitude)*imag(amplitude)
	}
	return math.Sqrt(sum)
}

// Normalize scales the state to unit norm.
func (sv *StateVector) Normalize() error {
	norm := sv.Norm()
	if norm == 0 {
		return fmt.Errorf("cannot normalize a zero state")
	}
	for i := range sv.Amplitudes {
		sv.Amplitudes[i] /= complex(norm, 0)
	}
	return nil
}

// EqualWithin reports amplitude-wise equality within tol.
func (sv *StateVector) EqualWithin(other *StateVector, tol float64) bool {
	if other == nil || len(sv.Amplitudes) != len(other.Amplitudes) {
		return false
	}
	for i := range sv.Amplitudes {
		if cmplx.Abs(sv.Amplitudes[i]-other.Amplitudes[i]) > tol {
			return false
		}
	}
	return true
}

/*
Compose places low on the lower qubits and high on the upper qubits of a
single wider register, so the composite amplitude at index i is
low[i & (lowDim-1)] * high[i >> low.NumQubits].
*/
func Compose(low, high *StateVector) *StateVector {
	lowDim := low.Dim()
	amps := make([]complex128, lowDim*high.Dim())
	for i := range amps {
		amps[i] = low.Amplitudes[i&(lowDim-1)] * high.Amplitudes[i>>low.NumQubits]
	}
	return &StateVector{Amplitudes: amps, NumQubits: low.NumQubits + high.NumQubits}
}

/*
Measure samples a basis state from the probability distribution, collapses
the state onto it, and returns its index. A nil rng falls back to the global
source.
*/
func (sv *StateVector) Measure(rng *rand.Rand) int {
	probs := sv.Probabilities()
	var total float64
	for _, p := range probs {
		total += p
	}

	r := rand.Float64()
	if rng != nil {
		r = rng.Float64()
	}
	r *= total

	// Walk the cumulative distribution to find the measured state.
	cumulative := 0.0
	measured := len(probs) - 1
	for i, p := range probs {
		cumulative += p
		if r <= cumulative {
			measured = i
			break
		}
	}

	// Collapse onto the measured basis state.
	collapsed := make([]complex128, len(sv.Amplitudes))
	collapsed[measured] = 1
	sv.Amplitudes = collapsed
	return measured
}

// applyH applies a Hadamard to qubit q.
//
//	H = 1/√2 * [1  1]
//	           [1 -1]
func (sv *StateVector) applyH(q int) {
	bit := 1 << q
	inv := complex(1/math.Sqrt2, 0)
	for i := range sv.Amplitudes {
		if i&bit == 0 {
			a0 := sv.Amplitudes[i]
			a1 := sv.Amplitudes[i|bit]
			sv.Amplitudes[i] = inv * (a0 + a1)
			sv.Amplitudes[i|bit] = inv * (a0 - a1)
		}
	}
}

// applyCX flips the target qubit wherever the control qubit is set.
func (sv *StateVector) applyCX(control, target int) {
	cbit := 1 << control
	tbit := 1 << target
	for i := range sv.Amplitudes {
		if i&cbit != 0 && i&tbit == 0 {
			sv.Amplitudes[i], sv.Amplitudes[i|tbit] = sv.Amplitudes[i|tbit], sv.Amplitudes[i]
		}
	}
}

// applyRY rotates qubit q around the Y axis.
//
//	RY(θ) = [cos(θ/2)  -sin(θ/2)]
//	        [sin(θ/2)   cos(θ/2)]
func (sv *StateVector) applyRY(theta float64, q int) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	for i := range sv.Amplitudes {
		if i&bit == 0 {
			a0 := sv.Amplitudes[i]
			a1 := sv.Amplitudes[i|bit]
			sv.Amplitudes[i] = c*a0 - s*a1
			sv.Amplitudes[i|bit] = s*a0 + c*a1
		}
	}
}

/*
initializeSub loads a sub-state onto the given qubits. The target qubits
must still be in |0>, which holds on fresh registers; loading over an
already populated sub-register is rejected rather than silently reset.
*/
func (sv *StateVector) initializeSub(sub *StateVector, qubits []int) error {
	if len(qubits) != sub.NumQubits {
		return fmt.Errorf("%w: %d qubits for a %d-qubit state", ErrDimensionMismatch, len(qubits), sub.NumQubits)
	}
	var mask int
	for _, q := range qubits {
		if q < 0 || q >= sv.NumQubits {
			return fmt.Errorf("%w: qubit %d on a %d-qubit register", ErrQubitOutOfRange, q, sv.NumQubits)
		}
		bit := 1 << q
		if mask&bit != 0 {
			return fmt.Errorf("qubit %d listed twice", q)
		}
		mask |= bit
	}
	for i, amplitude := range sv.Amplitudes {
		if i&mask != 0 && amplitude != 0 {
			return fmt.Errorf("initialize target qubits are not in |0>")
		}
	}

	out := make([]complex128, len(sv.Amplitudes))
	for i, amplitude := range sv.Amplitudes {
		if amplitude == 0 || i&mask != 0 {
			continue
		}
		// Fan the sub-state amplitudes out across the target qubits.
		for s, subAmp := range sub.Amplitudes {
			j := i
			for k, q := range qubits {
				if s&(1<<k) != 0 {
					j |= 1 << q
				}
			}
			out[j] = amplitude * subAmp
		}
	}
	sv.Amplitudes = out
	return nil
}
