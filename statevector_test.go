package qchain

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const invSqrt2 = 1 / math.Sqrt2

func bellPair() *StateVector {
	state, _ := StateVectorFromAmplitudes([]complex128{
		complex(invSqrt2, 0), 0, 0, complex(invSqrt2, 0),
	})
	return state
}

func TestNewStateVector(t *testing.T) {
	Convey("Given a register width", t, func() {
		Convey("When creating a fresh state", func() {
			state := NewStateVector(2)

			Convey("Then it should be |00>", func() {
				So(state.NumQubits, ShouldEqual, 2)
				So(state.Dim(), ShouldEqual, 4)
				So(state.Amplitudes[0], ShouldEqual, complex(1, 0))
				So(state.Amplitudes[1], ShouldEqual, complex(0, 0))
				So(state.Amplitudes[2], ShouldEqual, complex(0, 0))
				So(state.Amplitudes[3], ShouldEqual, complex(0, 0))
			})
		})
	})
}

func TestStateVectorFromAmplitudes(t *testing.T) {
	Convey("Given raw amplitude slices", t, func() {
		Convey("When the length is a power of two", func() {
			amps := []complex128{0, 1}
			state, err := StateVectorFromAmplitudes(amps)

			Convey("Then the state wraps a copy of them", func() {
				So(err, ShouldBeNil)
				So(state.NumQubits, ShouldEqual, 1)
				So(state.Amplitudes[1], ShouldEqual, complex(1, 0))

				amps[1] = 42
				So(state.Amplitudes[1], ShouldEqual, complex(1, 0))
			})
		})

		Convey("When the length is not a power of two", func() {
			_, err := StateVectorFromAmplitudes([]complex128{1, 0, 0})

			Convey("Then it should be rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the slice is empty", func() {
			_, err := StateVectorFromAmplitudes(nil)

			Convey("Then it should be rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestProbabilities(t *testing.T) {
	Convey("Given an equal superposition with a complex phase", t, func() {
		state, err := StateVectorFromAmplitudes([]complex128{
			complex(invSqrt2, 0), complex(0, invSqrt2),
		})
		So(err, ShouldBeNil)

		Convey("When reading the probabilities", func() {
			probs := state.Probabilities()

			Convey("Then the phase should not matter", func() {
				So(len(probs), ShouldEqual, 2)
				So(probs[0], ShouldAlmostEqual, 0.5)
				So(probs[1], ShouldAlmostEqual, 0.5)
			})
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given a non-unit state", t, func() {
		state, err := StateVectorFromAmplitudes([]complex128{3, 4})
		So(err, ShouldBeNil)

		Convey("When normalizing", func() {
			So(state.Norm(), ShouldAlmostEqual, 5)
			So(state.Normalize(), ShouldBeNil)

			Convey("Then the norm should be one", func() {
				So(state.Norm(), ShouldAlmostEqual, 1)
				So(real(state.Amplitudes[0]), ShouldAlmostEqual, 0.6)
				So(real(state.Amplitudes[1]), ShouldAlmostEqual, 0.8)
			})
		})
	})

	Convey("Given a zero state", t, func() {
		state, err := StateVectorFromAmplitudes([]complex128{0, 0})
		So(err, ShouldBeNil)

		Convey("When normalizing", func() {
			err := state.Normalize()

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestCompose(t *testing.T) {
	Convey("Given two single-qubit states", t, func() {
		low, _ := StateVectorFromAmplitudes([]complex128{0, 1})  // |1>
		high, _ := StateVectorFromAmplitudes([]complex128{1, 0}) // |0>

		Convey("When composing them", func() {
			composite := Compose(low, high)

			Convey("Then low should occupy the low bit", func() {
				So(composite.NumQubits, ShouldEqual, 2)
				So(composite.Amplitudes[1], ShouldEqual, complex(1, 0))
				So(composite.Amplitudes[0], ShouldEqual, complex(0, 0))
				So(composite.Amplitudes[2], ShouldEqual, complex(0, 0))
				So(composite.Amplitudes[3], ShouldEqual, complex(0, 0))
			})
		})
	})

	Convey("Given superposed registers", t, func() {
		low, _ := StateVectorFromAmplitudes([]complex128{
			complex(invSqrt2, 0), complex(invSqrt2, 0),
		})
		high, _ := StateVectorFromAmplitudes([]complex128{0, 1})

		Convey("When composing them", func() {
			composite := Compose(low, high)

			Convey("Then every product amplitude should land on its index", func() {
				So(composite.Amplitudes[0], ShouldEqual, complex(0, 0))
				So(composite.Amplitudes[1], ShouldEqual, complex(0, 0))
				So(real(composite.Amplitudes[2]), ShouldAlmostEqual, invSqrt2)
				So(real(composite.Amplitudes[3]), ShouldAlmostEqual, invSqrt2)
			})
		})
	})
}

func TestMeasure(t *testing.T) {
	Convey("Given a definite basis state", t, func() {
		state, _ := StateVectorFromAmplitudes([]complex128{0, 0, 1, 0})

		Convey("When measuring", func() {
			outcome := state.Measure(nil)

			Convey("Then the outcome is certain and the state collapses", func() {
				So(outcome, ShouldEqual, 2)
				So(state.Amplitudes[2], ShouldEqual, complex(1, 0))
				So(state.Amplitudes[0], ShouldEqual, complex(0, 0))
			})
		})
	})

	Convey("Given two identical superpositions", t, func() {
		first := bellPair()
		second := bellPair()

		Convey("When measuring both with identically seeded sources", func() {
			outcome1 := first.Measure(rand.New(rand.NewSource(7)))
			outcome2 := second.Measure(rand.New(rand.NewSource(7)))

			Convey("Then the outcomes should agree", func() {
				So(outcome1, ShouldEqual, outcome2)
				So(outcome1 == 0 || outcome1 == 3, ShouldBeTrue)
			})
		})
	})
}

func TestEqualWithin(t *testing.T) {
	Convey("Given a reference state", t, func() {
		reference := bellPair()

		Convey("When comparing against a copy", func() {
			So(reference.EqualWithin(reference.Clone(), 1e-12), ShouldBeTrue)
		})

		Convey("When comparing against a perturbed copy", func() {
			perturbed := reference.Clone()
			perturbed.Amplitudes[0] += complex(1e-6, 0)

			So(reference.EqualWithin(perturbed, 1e-9), ShouldBeFalse)
			So(reference.EqualWithin(perturbed, 1e-3), ShouldBeTrue)
		})

		Convey("When comparing against nil or another width", func() {
			So(reference.EqualWithin(nil, 1e-9), ShouldBeFalse)
			So(reference.EqualWithin(NewStateVector(1), 1e-9), ShouldBeFalse)
		})
	})
}
