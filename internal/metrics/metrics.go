// Package metrics summarizes network trajectories. Every metric is a
// dynamo.Observer and can be attached to a simulator with sim.WithObserver.
package metrics

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/san-kum/netdyn/internal/network"
)

type Metric interface {
	dynamo.Observer
	Name() string
	Value() float64
	Reset()
}

// Defaults returns the metrics reported for a law: the order parameter for
// phase laws, mean activity otherwise, plus boundedness.
func Defaults(law network.Law) []Metric {
	var out []Metric
	if law.UsesNodeParameter() {
		out = append(out, NewOrderParameter(), NewFinalOrder())
	} else {
		out = append(out, NewMeanActivity(law))
	}
	return append(out, NewStability(law, 1e3))
}

// Order is the Kuramoto order parameter |mean(exp(i*theta))|. It is 1 for
// identical phases and near 0 for incoherent ones.
func Order(phases []float64) float64 {
	if len(phases) == 0 {
		return 0
	}
	var z complex128
	for _, theta := range phases {
		z += cmplx.Exp(complex(0, theta))
	}
	return cmplx.Abs(z) / float64(len(phases))
}

// OrderParameter averages Order over every observed state.
type OrderParameter struct {
	sum     float64
	samples int
}

func NewOrderParameter() *OrderParameter { return &OrderParameter{} }

func (o *OrderParameter) Name() string { return "order_mean" }

func (o *OrderParameter) OnStep(x dynamo.State, t float64) {
	o.sum += Order(x)
	o.samples++
}

func (o *OrderParameter) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return o.sum / float64(o.samples)
}

func (o *OrderParameter) Reset() {
	o.sum = 0
	o.samples = 0
}

// FinalOrder is Order of the last observed state.
type FinalOrder struct {
	last float64
}

func NewFinalOrder() *FinalOrder { return &FinalOrder{} }

func (f *FinalOrder) Name() string                     { return "order_final" }
func (f *FinalOrder) OnStep(x dynamo.State, t float64) { f.last = Order(x) }
func (f *FinalOrder) Value() float64                   { return f.last }
func (f *FinalOrder) Reset()                           { f.last = 0 }

// MeanActivity averages the per-node value (x for roessler) over nodes and
// observations.
type MeanActivity struct {
	law     network.Law
	sum     float64
	samples int
}

func NewMeanActivity(law network.Law) *MeanActivity {
	return &MeanActivity{law: law}
}

func (m *MeanActivity) Name() string { return "mean_activity" }

func (m *MeanActivity) OnStep(x dynamo.State, t float64) {
	n := len(x) / m.law.StateDim(1)
	if n == 0 {
		return
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += m.law.NodeValue(x, i)
	}
	m.sum += total / float64(n)
	m.samples++
}

func (m *MeanActivity) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanActivity) Reset() {
	m.sum = 0
	m.samples = 0
}

// Stability is the fraction of observed states whose node values all stay
// within threshold in absolute value.
type Stability struct {
	law        network.Law
	threshold  float64
	violations int
	samples    int
}

func NewStability(law network.Law, threshold float64) *Stability {
	return &Stability{law: law, threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) OnStep(x dynamo.State, t float64) {
	s.samples++
	n := len(x) / s.law.StateDim(1)
	for i := 0; i < n; i++ {
		if math.Abs(s.law.NodeValue(x, i)) > s.threshold {
			s.violations++
			return
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Collect resets ms and returns an observer list for sim.WithObserver.
func Collect(ms []Metric) []dynamo.Observer {
	obs := make([]dynamo.Observer, len(ms))
	for i, m := range ms {
		m.Reset()
		obs[i] = m
	}
	return obs
}

// Values maps metric names to their current values.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
