package network_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/san-kum/netdyn/internal/network"
)

func mustModel(name string, adj *dynamo.Matrix) *network.Model {
	m, err := network.New(network.Config{Name: name, Adjacency: adj, Time: grid})
	Expect(err).NotTo(HaveOccurred())
	return m
}

func mustMatrix(rows [][]float64) *dynamo.Matrix {
	m, err := dynamo.FromRows(rows)
	Expect(err).NotTo(HaveOccurred())
	return m
}

var _ = Describe("Derivative", func() {
	It("kuramoto1 is zero for equal phases and zero frequencies", func() {
		m := mustModel("kuramoto1", dynamo.Ones(3, 3))
		d, err := m.Derivative([]float64{0, 0, 0}, 0, m.Adjacency(), []float64{0, 0, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(Equal([]float64{0, 0, 0}))
	})

	It("kuramoto1 adds the sine coupling to the natural frequency", func() {
		m := mustModel("kuramoto1", mustMatrix([][]float64{{0, 1}, {0, 0}}))
		d, err := m.Derivative([]float64{0, math.Pi / 2}, 0, m.Adjacency(), []float64{2, 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(d[0]).To(BeNumerically("~", 3, 1e-12))
		Expect(d[1]).To(BeNumerically("~", 3, 1e-12))
	})

	It("kuramoto2 weights both coupling terms by the adjacency", func() {
		m := mustModel("kuramoto2", mustMatrix([][]float64{{0, 2}, {0, 0}}))
		y := []float64{0.3, 1.1}
		d, err := m.Derivative(y, 0, m.Adjacency(), []float64{1, 1})
		Expect(err).NotTo(HaveOccurred())

		want0 := 1 + 2*(math.Sin(y[1]-y[0]-1.05)+0.33*math.Sin(2*(y[0]-y[1])))
		Expect(d[0]).To(BeNumerically("~", want0, 1e-12))
		Expect(d[1]).To(BeNumerically("~", 1, 1e-12))
	})

	It("michaelis_menten saturates the neighbour input", func() {
		m := mustModel("michaelis_menten", mustMatrix([][]float64{{0, 1}, {1, 0}}))
		d, err := m.Derivative([]float64{1, 1}, 0, m.Adjacency(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(d[0]).To(BeNumerically("~", -0.5, 1e-12))
		Expect(d[1]).To(BeNumerically("~", -0.5, 1e-12))
	})

	It("roessler uses the fixed constants and couples through x", func() {
		m := mustModel("roessler", mustMatrix([][]float64{{0, 1}, {0, 0}}))
		y := []float64{1, 2, 3, 0.5, 0, 0}
		d, err := m.Derivative(y, 0, m.Adjacency(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(HaveLen(6))

		Expect(d[0]).To(BeNumerically("~", -2-3+math.Sin(0.5), 1e-12))
		Expect(d[1]).To(BeNumerically("~", 1+0.1*2, 1e-12))
		Expect(d[2]).To(BeNumerically("~", 0.1+3*(1-18), 1e-12))
		Expect(d[3]).To(BeNumerically("~", 0, 1e-12))
		Expect(d[4]).To(BeNumerically("~", 0.5, 1e-12))
		Expect(d[5]).To(BeNumerically("~", 0.1, 1e-12))
	})

	It("roessler with a state of length 2N fails on shape", func() {
		m := mustModel("roessler", dynamo.Ones(2, 2))
		short := []float64{1, 2, 3, 4}

		Expect(m.CheckShape(short, m.Adjacency(), nil)).To(MatchError(dynamo.ErrShapeMismatch))
		Expect(func() {
			_, _ = m.Derivative(short, 0, m.Adjacency(), nil)
		}).To(Panic())
	})

	It("is idempotent", func() {
		m := mustModel("kuramoto2", dynamo.Ones(4, 4))
		y := []float64{0.1, 0.9, 2.3, 4.0}
		omega := []float64{1, 2, 3, 4}

		a, err := m.Derivative(y, 1.5, m.Adjacency(), omega)
		Expect(err).NotTo(HaveOccurred())
		b, err := m.Derivative(y, 1.5, m.Adjacency(), omega)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
		Expect(y).To(Equal([]float64{0.1, 0.9, 2.3, 4.0}))
	})

	It("ignores the time argument", func() {
		m := mustModel("michaelis_menten", dynamo.Ones(3, 3))
		y := []float64{0.2, 0.4, 0.8}
		a, _ := m.Derivative(y, 0, m.Adjacency(), nil)
		b, _ := m.Derivative(y, 1e6, m.Adjacency(), nil)
		Expect(a).To(Equal(b))
	})
})

var _ = Describe("CheckShape", func() {
	It("requires node parameters for kuramoto laws", func() {
		m := mustModel("kuramoto1", dynamo.Ones(3, 3))
		Expect(m.CheckShape([]float64{0, 0, 0}, m.Adjacency(), []float64{1})).To(MatchError(dynamo.ErrShapeMismatch))
		Expect(m.CheckShape([]float64{0, 0, 0}, m.Adjacency(), []float64{1, 1, 1})).To(Succeed())
	})

	It("rejects a non-square override", func() {
		m := mustModel("michaelis_menten", dynamo.Ones(2, 2))
		Expect(m.CheckShape([]float64{0, 0}, dynamo.NewMatrix(2, 3), nil)).To(MatchError(dynamo.ErrShapeMismatch))
	})
})

var _ = Describe("System", func() {
	It("matches Derivative", func() {
		m := mustModel("kuramoto1", dynamo.Ones(3, 3))
		omega := []float64{1, 2, 3}
		sys := m.System(omega)
		Expect(sys.StateDim()).To(Equal(3))
		Expect(sys.ControlDim()).To(Equal(0))

		x := dynamo.State{0.5, 1, 1.5}
		want, err := m.Derivative(x, 0, m.Adjacency(), omega)
		Expect(err).NotTo(HaveOccurred())
		Expect([]float64(sys.Derive(x, nil, 0))).To(Equal(want))
		Expect(sys.Check(x)).To(Succeed())
	})
})
