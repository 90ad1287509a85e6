package network_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/san-kum/netdyn/internal/network"
)

var grid = []float64{0, 1, 2, 3}

var _ = Describe("New", func() {
	Context("model name", func() {
		It("rejects an unknown name", func() {
			_, err := network.New(network.Config{Name: "invalid_model", Time: grid})
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
			Expect(err.Error()).To(ContainSubstring("invalid_model"))
		})

		It("rejects a missing name", func() {
			_, err := network.New(network.Config{Time: grid})
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("rejects the hyphenated spelling", func() {
			_, err := network.New(network.Config{Name: "michaelis-menten", Time: grid})
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("checks the name before looking at the adjacency", func() {
			_, err := network.New(network.Config{Name: "nope", Adjacency: dynamo.NewMatrix(4, 5), Time: grid})
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})
	})

	Context("time grid", func() {
		It("is required", func() {
			_, err := network.New(network.Config{Name: "kuramoto1"})
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
			Expect(err.Error()).To(ContainSubstring("time"))
		})

		It("must be strictly increasing", func() {
			_, err := network.New(network.Config{Name: "kuramoto1", Time: []float64{0, 1, 1}})
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})
	})

	Context("dimensions", func() {
		It("rejects a non-square adjacency", func() {
			_, err := network.New(network.Config{Name: "kuramoto1", Adjacency: dynamo.NewMatrix(4, 5), Time: grid})
			Expect(err).To(MatchError(dynamo.ErrDimension))
			Expect(err.Error()).To(ContainSubstring("4x5"))
		})

		It("rejects initial values that do not match the node count", func() {
			_, err := network.New(network.Config{
				Name:          "kuramoto1",
				NumNodes:      5,
				InitialValues: []float64{0, 0, 0, 0},
				Time:          grid,
			})
			Expect(err).To(MatchError(dynamo.ErrDimension))
		})

		It("rejects num_nodes that disagrees with the adjacency", func() {
			_, err := network.New(network.Config{Name: "kuramoto1", NumNodes: 3, Adjacency: dynamo.Ones(4, 4), Time: grid})
			Expect(err).To(MatchError(dynamo.ErrDimension))
		})

		It("validates roessler initial values against three components per node", func() {
			_, err := network.New(network.Config{Name: "roessler", NumNodes: 2, InitialValues: []float64{1, 2}, Time: grid})
			Expect(err).To(MatchError(dynamo.ErrDimension))

			m, err := network.New(network.Config{Name: "roessler", NumNodes: 2, InitialValues: make([]float64, 6), Time: grid})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.StateDim()).To(Equal(6))
		})
	})

	Context("defaults", func() {
		It("builds a fully connected matrix and random initial values", func() {
			m, err := network.New(network.Config{Name: "kuramoto2", Time: grid, Seed: 9})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.NumNodes()).To(Equal(network.DefaultNodes))
			Expect(m.Adjacency().CountNonZero()).To(Equal(network.DefaultNodes * network.DefaultNodes))

			values := m.InitialValues()
			Expect(values).To(HaveLen(network.DefaultNodes))
			for _, v := range values {
				Expect(v).To(BeNumerically(">=", 0))
				Expect(v).To(BeNumerically("<", 1))
			}
		})

		It("draws initial values from the given random source", func() {
			a, err := network.New(network.Config{Name: "kuramoto1", NumNodes: 4, Time: grid, Rand: rand.New(rand.NewSource(5))})
			Expect(err).NotTo(HaveOccurred())
			b, err := network.New(network.Config{Name: "kuramoto1", NumNodes: 4, Time: grid, Rand: rand.New(rand.NewSource(5))})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.InitialValues()).To(Equal(b.InitialValues()))
		})

		It("takes the node count from the adjacency", func() {
			m, err := network.New(network.Config{Name: "michaelis_menten", Adjacency: dynamo.Ones(3, 3), Time: grid})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.NumNodes()).To(Equal(3))
		})

		It("does not alias caller arrays", func() {
			adj := dynamo.Ones(2, 2)
			initial := []float64{0.1, 0.2}
			m, err := network.New(network.Config{Name: "kuramoto1", Adjacency: adj, InitialValues: initial, Time: grid})
			Expect(err).NotTo(HaveOccurred())

			adj.Set(0, 0, 9)
			initial[0] = 9
			Expect(m.Adjacency().At(0, 0)).To(Equal(1.0))
			Expect(m.InitialValues()[0]).To(Equal(0.1))
		})
	})

	It("rejects a negative noise level", func() {
		_, err := network.New(network.Config{Name: "kuramoto1", Time: grid, NoiseLevel: -1})
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})
})

var _ = Describe("ParseLaw", func() {
	It("round-trips every law", func() {
		for _, l := range network.Laws() {
			parsed, err := network.ParseLaw(l.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(l))
		}
	})

	It("reports node parameter usage", func() {
		Expect(network.Kuramoto1.UsesNodeParameter()).To(BeTrue())
		Expect(network.Kuramoto2.UsesNodeParameter()).To(BeTrue())
		Expect(network.MichaelisMenten.UsesNodeParameter()).To(BeFalse())
		Expect(network.Roessler.UsesNodeParameter()).To(BeFalse())
	})
})

var _ = Describe("NodeSeries", func() {
	It("takes the x component for roessler", func() {
		states := [][]float64{{1, 2, 3, 4, 5, 6}, {7, 8, 9, 10, 11, 12}}
		Expect(network.Roessler.NodeSeries(states)).To(Equal([][]float64{{1, 7}, {4, 10}}))
	})

	It("transposes scalar laws", func() {
		states := [][]float64{{1, 2}, {3, 4}, {5, 6}}
		Expect(network.Kuramoto1.NodeSeries(states)).To(Equal([][]float64{{1, 3, 5}, {2, 4, 6}}))
		Expect(network.MichaelisMenten.NodeSeries(nil)).To(BeNil())
	})
})
