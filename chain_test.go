package qchain

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

/*
fakeSimulator answers every Simulator call from canned fields, so chain
behavior can be driven without statevector math. Probabilities stays real,
which keeps quantum digests consistent across a fake-backed chain.
*/
type fakeSimulator struct {
	state       *StateVector
	eigenvalues []complex128
	expectation float64

	randomErr error
	expectErr error

	randomCalls int
}

func newFakeSimulator() *fakeSimulator {
	return &fakeSimulator{
		state:       NewStateVector(BlockQubits),
		eigenvalues: []complex128{1, 0, 0, 0},
	}
}

func (f *fakeSimulator) RandomState(numQubits int) (*StateVector, error) {
	f.randomCalls++
	if f.randomErr != nil {
		return nil, f.randomErr
	}
	return f.state.Clone(), nil
}

func (f *fakeSimulator) Probabilities(state *StateVector) ([]float64, error) {
	if state == nil {
		return nil, ErrDimensionMismatch
	}
	return state.Probabilities(), nil
}

func (f *fakeSimulator) Run(circuit *Circuit) (*StateVector, error) {
	return f.state.Clone(), nil
}

func (f *fakeSimulator) ReducedDensityMatrix(state *StateVector, traceOut []int) (*DensityMatrix, error) {
	return DensityMatrixFromState(f.state), nil
}

func (f *fakeSimulator) DominantEigenvector(rho *DensityMatrix) (*StateVector, float64, error) {
	return f.state.Clone(), 1, nil
}

func (f *fakeSimulator) Eigenvalues(rho *DensityMatrix) ([]complex128, error) {
	return append([]complex128(nil), f.eigenvalues...), nil
}

func (f *fakeSimulator) ExpectationValue(state *StateVector, observable string) (float64, error) {
	if f.expectErr != nil {
		return 0, f.expectErr
	}
	return f.expectation, nil
}

func TestNewChain(t *testing.T) {
	Convey("Given a seeded simulator", t, func() {
		sim := NewStatevectorSimulator(WithSeed(42))

		Convey("When creating a chain at difficulty 2", func() {
			chain, err := NewChain(sim, 2)

			Convey("Then the genesis block should be mined in place", func() {
				So(err, ShouldBeNil)
				So(chain.Len(), ShouldEqual, 1)
				So(chain.Difficulty(), ShouldEqual, 2)
				So(chain.MiningReward, ShouldEqual, DefaultMiningReward)

				genesis, ok := chain.Block(0)
				So(ok, ShouldBeTrue)
				So(genesis.Data, ShouldEqual, "Genesis Block")
				So(genesis.PreviousHash, ShouldEqual, "0")
				So(strings.HasPrefix(genesis.Hash, "00"), ShouldBeTrue)
				So(chain.Validate(), ShouldBeTrue)
			})
		})

		Convey("When the parameters are invalid", func() {
			_, err := NewChain(nil, 1)
			So(err, ShouldNotBeNil)

			_, err = NewChain(sim, -1)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a simulator that cannot draw states", t, func() {
		fake := newFakeSimulator()
		fake.randomErr = errors.New("backend down")

		Convey("When creating a chain", func() {
			_, err := NewChain(fake, 1)

			Convey("Then the failure should surface instead of being masked", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "backend down")
			})
		})
	})
}

func TestAppend(t *testing.T) {
	Convey("Given a fresh chain", t, func() {
		sim := NewStatevectorSimulator(WithSeed(42))
		chain, err := NewChain(sim, 1)
		So(err, ShouldBeNil)

		Convey("When appending a block", func() {
			So(chain.Append("Alice pays Bob 5 qubits"), ShouldBeNil)

			Convey("Then the block should be mined and chained", func() {
				So(chain.Len(), ShouldEqual, 2)

				genesis, _ := chain.Block(0)
				block, ok := chain.Block(1)
				So(ok, ShouldBeTrue)
				So(block.Data, ShouldEqual, "Alice pays Bob 5 qubits")
				So(block.PreviousHash, ShouldEqual, genesis.Hash)
				So(strings.HasPrefix(block.Hash, "0"), ShouldBeTrue)
				So(chain.Latest(), ShouldEqual, block)
				So(chain.Validate(), ShouldBeTrue)
				So(chain.VerifyBlock(1), ShouldBeTrue)
			})
		})

		Convey("When appending five more blocks", func() {
			for i := 0; i < 5; i++ {
				So(chain.Append("tx"), ShouldBeNil)
			}

			Convey("Then every link, digest and state should hold", func() {
				So(chain.Len(), ShouldEqual, 6)
				So(chain.Validate(), ShouldBeTrue)

				for i := 0; i < chain.Len(); i++ {
					So(chain.VerifyBlock(i), ShouldBeTrue)

					block, ok := chain.Block(i)
					So(ok, ShouldBeTrue)
					So(math.Abs(block.QuantumState.Norm()-1), ShouldBeLessThan, 1e-9)
				}

				for i := 1; i < chain.Len(); i++ {
					measure := chain.EntanglementMeasure(i)
					So(measure, ShouldBeGreaterThanOrEqualTo, 0)
					So(measure, ShouldBeLessThanOrEqualTo, BlockQubits)
				}
			})
		})

		Convey("When appending with a live context", func() {
			So(chain.AppendContext(context.Background(), "ctx tx"), ShouldBeNil)
			So(chain.Len(), ShouldEqual, 2)
			So(chain.Validate(), ShouldBeTrue)
		})
	})
}

func TestValidateDetectsTampering(t *testing.T) {
	Convey("Given a chain with two mined blocks", t, func() {
		sim := NewStatevectorSimulator(WithSeed(42))
		chain, err := NewChain(sim, 1)
		So(err, ShouldBeNil)
		So(chain.Append("original payload"), ShouldBeNil)
		So(chain.Append("second payload"), ShouldBeNil)
		So(chain.Validate(), ShouldBeTrue)

		Convey("When a block's data is rewritten", func() {
			block, _ := chain.Block(1)
			original := block.Data
			block.Data = "tampered payload"

			Convey("Then validation should fail until the data is restored", func() {
				So(chain.Validate(), ShouldBeFalse)

				block.Data = original
				So(chain.Validate(), ShouldBeTrue)
			})
		})

		Convey("When a block's quantum state is swapped", func() {
			block, _ := chain.Block(2)
			original := block.QuantumState
			block.QuantumState = NewStateVector(BlockQubits)

			Convey("Then the quantum digest check should fail until restored", func() {
				So(chain.Validate(), ShouldBeFalse)
				So(chain.VerifyBlock(2), ShouldBeFalse)

				block.QuantumState = original
				So(chain.Validate(), ShouldBeTrue)
				So(chain.VerifyBlock(2), ShouldBeTrue)
			})
		})

		Convey("When a link is severed", func() {
			block, _ := chain.Block(1)
			original := block.PreviousHash
			block.PreviousHash = "severed"

			Convey("Then validation should fail until the link is restored", func() {
				So(chain.Validate(), ShouldBeFalse)

				block.PreviousHash = original
				So(chain.Validate(), ShouldBeTrue)
			})
		})
	})
}

func TestChainWithFakeSimulator(t *testing.T) {
	Convey("Given a chain over a canned simulator", t, func() {
		fake := newFakeSimulator()
		chain, err := NewChain(fake, 1)
		So(err, ShouldBeNil)

		Convey("When appending", func() {
			So(chain.Append("fake tx"), ShouldBeNil)

			Convey("Then the chain should hold together on canned answers", func() {
				So(chain.Len(), ShouldEqual, 2)
				So(chain.Validate(), ShouldBeTrue)
				So(fake.randomCalls, ShouldEqual, 2)
			})
		})

		Convey("When the provider starts failing mid-chain", func() {
			fake.randomErr = errors.New("backend down")

			Convey("Then the append should fail and leave the chain intact", func() {
				err := chain.Append("doomed tx")
				So(err, ShouldNotBeNil)
				So(chain.Len(), ShouldEqual, 1)
				So(chain.Validate(), ShouldBeTrue)
			})
		})
	})
}

func TestChainAccessors(t *testing.T) {
	Convey("Given a single-block chain", t, func() {
		sim := NewStatevectorSimulator(WithSeed(42))
		chain, err := NewChain(sim, 0)
		So(err, ShouldBeNil)

		Convey("Then out-of-range lookups should report absence", func() {
			_, ok := chain.Block(-1)
			So(ok, ShouldBeFalse)

			_, ok = chain.Block(chain.Len())
			So(ok, ShouldBeFalse)

			So(chain.Latest(), ShouldNotBeNil)
		})
	})
}
