package qchain

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInfo(t *testing.T) {
	Convey("Given a chain with two appended blocks", t, func() {
		sim := NewStatevectorSimulator(WithSeed(42))
		chain, err := NewChain(sim, 2)
		So(err, ShouldBeNil)
		So(chain.Append("tx one"), ShouldBeNil)
		So(chain.Append("tx two"), ShouldBeNil)

		Convey("When taking a snapshot", func() {
			info := chain.Info()
			spew.Dump(info)

			Convey("Then the aggregate figures should line up", func() {
				So(info.ChainLength, ShouldEqual, 3)
				So(info.Difficulty, ShouldEqual, 2)
				So(info.IsValid, ShouldBeTrue)
				So(info.TotalQuantumEntanglement, ShouldAlmostEqual, 0, 1e-6)
				So(info.AverageEntanglement, ShouldAlmostEqual, info.TotalQuantumEntanglement/2, 1e-12)
			})
		})

		Convey("When the chain is tampered with", func() {
			block, _ := chain.Block(1)
			block.Data = "tampered"

			Convey("Then the snapshot should report invalidity", func() {
				So(chain.Info().IsValid, ShouldBeFalse)
			})
		})
	})

	Convey("Given a single-block chain", t, func() {
		sim := NewStatevectorSimulator(WithSeed(42))
		chain, err := NewChain(sim, 0)
		So(err, ShouldBeNil)

		Convey("When taking a snapshot", func() {
			info := chain.Info()

			Convey("Then there are no pairs to measure", func() {
				So(info.ChainLength, ShouldEqual, 1)
				So(info.TotalQuantumEntanglement, ShouldEqual, 0)
				So(info.AverageEntanglement, ShouldEqual, 0)
			})
		})
	})
}

func TestInfoAggregation(t *testing.T) {
	Convey("Given a canned simulator reporting one bit per pair", t, func() {
		fake := newFakeSimulator()
		fake.eigenvalues = []complex128{0.5, 0.5}

		chain, err := NewChain(fake, 1)
		So(err, ShouldBeNil)
		So(chain.Append("tx one"), ShouldBeNil)
		So(chain.Append("tx two"), ShouldBeNil)

		Convey("When taking a snapshot", func() {
			info := chain.Info()

			Convey("Then totals should sum across pairs and average per pair", func() {
				So(info.TotalQuantumEntanglement, ShouldAlmostEqual, 2, 1e-6)
				So(info.AverageEntanglement, ShouldAlmostEqual, 1, 1e-6)
			})
		})
	})
}
