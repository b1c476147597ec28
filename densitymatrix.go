package qchain

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

/*
DensityMatrix is a Hermitian matrix over a qubit register, stored row major.
The chain only ever builds these by reducing pure states, so they are
positive semidefinite with unit trace up to rounding.
*/
type DensityMatrix struct {
	Elements  [][]complex128
	NumQubits int
}

// Dim returns the matrix dimension.
func (dm *DensityMatrix) Dim() int {
	return len(dm.Elements)
}

// Trace returns the matrix trace.
func (dm *DensityMatrix) Trace() complex128 {
	var tr complex128
	for i := range dm.Elements {
		tr += dm.Elements[i][i]
	}
	return tr
}

// DensityMatrixFromState builds the pure-state density matrix |ψ><ψ|.
func DensityMatrixFromState(state *StateVector) *DensityMatrix {
	dim := state.Dim()
	elems := make([][]complex128, dim)
	for i := 0; i < dim; i++ {
		elems[i] = make([]complex128, dim)
		for j := 0; j < dim; j++ {
			elems[i][j] = state.Amplitudes[i] * cmplx.Conj(state.Amplitudes[j])
		}
	}
	return &DensityMatrix{Elements: elems, NumQubits: state.NumQubits}
}

/*
PartialTrace reduces a pure state to the density matrix of the qubits left
after tracing out traceOut. The kept qubits are re-indexed in ascending
order, so the lowest kept qubit becomes bit 0 of the reduced matrix.
*/
func PartialTrace(state *StateVector, traceOut []int) (*DensityMatrix, error) {
	seen := make(map[int]bool, len(traceOut))
	for _, q := range traceOut {
		if q < 0 || q >= state.NumQubits {
			return nil, fmt.Errorf("%w: qubit %d on a %d-qubit register", ErrQubitOutOfRange, q, state.NumQubits)
		}
		if seen[q] {
			return nil, fmt.Errorf("qubit %d traced out twice", q)
		}
		seen[q] = true
	}

	keep := make([]int, 0, state.NumQubits-len(traceOut))
	traced := make([]int, 0, len(traceOut))
	for q := 0; q < state.NumQubits; q++ {
		if seen[q] {
			traced = append(traced, q)
		} else {
			keep = append(keep, q)
		}
	}

	// scatter spreads the bits of value across the given qubit positions.
	scatter := func(value int, positions []int) int {
		var idx int
		for k, q := range positions {
			if value&(1<<k) != 0 {
				idx |= 1 << q
			}
		}
		return idx
	}

	dimKeep := 1 << len(keep)
	dimTraced := 1 << len(traced)
	elems := make([][]complex128, dimKeep)
	for a := 0; a < dimKeep; a++ {
		elems[a] = make([]complex128, dimKeep)
		aBits := scatter(a, keep)
		for b := 0; b < dimKeep; b++ {
			bBits := scatter(b, keep)
			var sum complex128
			for t := 0; t < dimTraced; t++ {
				tBits := scatter(t, traced)
				sum += state.Amplitudes[aBits|tBits] * cmplx.Conj(state.Amplitudes[bBits|tBits])
			}
			elems[a][b] = sum
		}
	}
	return &DensityMatrix{Elements: elems, NumQubits: len(keep)}, nil
}

/*
Eigen diagonalizes the matrix with cyclic Jacobi rotations, exact enough for
the small registers the chain works on while keeping the module free of a
linear algebra dependency. Eigenpairs come back sorted by descending
eigenvalue; the eigenvectors are unit norm and mutually orthogonal.
*/
func (dm *DensityMatrix) Eigen() ([]float64, [][]complex128, error) {
	n := dm.Dim()
	if n == 0 {
		return nil, nil, fmt.Errorf("%w: empty matrix", ErrDimensionMismatch)
	}
	for i := range dm.Elements {
		if len(dm.Elements[i]) != n {
			return nil, nil, fmt.Errorf("%w: row %d has %d columns in a %dx%d matrix",
				ErrDimensionMismatch, i, len(dm.Elements[i]), n, n)
		}
	}

	// Working copy a and accumulated rotations v.
	a := make([][]complex128, n)
	v := make([][]complex128, n)
	for i := 0; i < n; i++ {
		a[i] = make([]complex128, n)
		copy(a[i], dm.Elements[i])
		v[i] = make([]complex128, n)
		v[i][i] = 1
	}

	for sweep := 0; sweep < maxJacobiSweeps; sweep++ {
		var off float64
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				off += cmplx.Abs(a[p][q])
			}
		}
		if off < jacobiTolerance {
			break
		}

		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				m := cmplx.Abs(a[p][q])
				if m < jacobiTolerance {
					continue
				}

				// A complex rotation that zeroes a[p][q]: the phase
				// comes from the off-diagonal element, the angle from
				// the diagonal gap.
				phi := cmplx.Phase(a[p][q])
				theta := 0.5 * math.Atan2(2*m, real(a[q][q])-real(a[p][p]))
				c := math.Cos(theta)
				s := math.Sin(theta)
				cc := complex(c, 0)
				scp := complex(s, 0) * cmplx.Exp(complex(0, phi))
				scm := cmplx.Conj(scp)

				for k := 0; k < n; k++ {
					if k == p || k == q {
						continue
					}
					akp := a[k][p]
					akq := a[k][q]
					a[k][p] = cc*akp - scm*akq
					a[k][q] = scp*akp + cc*akq
					a[p][k] = cmplx.Conj(a[k][p])
					a[q][k] = cmplx.Conj(a[k][q])
				}

				app := real(a[p][p])
				aqq := real(a[q][q])
				a[p][p] = complex(app*c*c-2*m*s*c+aqq*s*s, 0)
				a[q][q] = complex(app*s*s+2*m*s*c+aqq*c*c, 0)
				a[p][q] = 0
				a[q][p] = 0

				for k := 0; k < n; k++ {
					vkp := v[k][p]
					vkq := v[k][q]
					v[k][p] = cc*vkp - scm*vkq
					v[k][q] = scp*vkp + cc*vkq
				}
			}
		}
	}

	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = real(a[i][i])
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] > values[order[j]]
	})

	sortedValues := make([]float64, n)
	vectors := make([][]complex128, n)
	for rank, idx := range order {
		sortedValues[rank] = values[idx]
		vec := make([]complex128, n)
		for k := 0; k < n; k++ {
			vec[k] = v[k][idx]
		}
		vectors[rank] = vec
	}
	return sortedValues, vectors, nil
}

/*
Eigenvalues returns the spectrum as complex numbers, mirroring the general
eigensolver contract even though a Hermitian matrix only produces reals.
*/
func (dm *DensityMatrix) Eigenvalues() ([]complex128, error) {
	values, _, err := dm.Eigen()
	if err != nil {
		return nil, err
	}
	out := make([]complex128, len(values))
	for i, val := range values {
		out[i] = complex(val, 0)
	}
	return out, nil
}
