package network

import (
	"math"

	"github.com/san-kum/netdyn/internal/dynamo"
)

// VectorField writes dy/dt into dst. t is part of the integrator calling
// convention and is unused: every law here is autonomous. Shapes are not
// checked; a state that does not fit the adjacency panics with an index
// error.
type VectorField func(dst, y []float64, t float64, a *dynamo.Matrix, omega []float64)

const (
	kuramoto2Lag      = 1.05
	kuramoto2Harmonic = 0.33

	roesslerA = 0.1
	roesslerB = 0.1
	roesslerC = 18.0
)

// Kuramoto1Field: dy_i = omega_i + Σ_j A_ij sin(y_j - y_i).
func Kuramoto1Field(dst, y []float64, _ float64, a *dynamo.Matrix, omega []float64) {
	for i := range y {
		row := a.Row(i)
		sum := 0.0
		for j, w := range row {
			sum += w * math.Sin(y[j]-y[i])
		}
		dst[i] = omega[i] + sum
	}
}

// Kuramoto2Field: dy_i = omega_i + Σ_j A_ij [sin(y_j - y_i - 1.05) + 0.33 sin(2(y_i - y_j))].
func Kuramoto2Field(dst, y []float64, _ float64, a *dynamo.Matrix, omega []float64) {
	for i := range y {
		row := a.Row(i)
		sum := 0.0
		for j, w := range row {
			sum += w * (math.Sin(y[j]-y[i]-kuramoto2Lag) + kuramoto2Harmonic*math.Sin(2*(y[i]-y[j])))
		}
		dst[i] = omega[i] + sum
	}
}

// MichaelisMentenField: dy_i = -y_i + Σ_j A_ij y_j/(1+y_j). omega is ignored.
func MichaelisMentenField(dst, y []float64, _ float64, a *dynamo.Matrix, _ []float64) {
	for i := range y {
		row := a.Row(i)
		sum := 0.0
		for j, w := range row {
			sum += w * (y[j] / (1 + y[j]))
		}
		dst[i] = -y[i] + sum
	}
}

// RoesslerField couples Rössler oscillators through sin(x_j) on the x
// equation. State is interleaved (x0,y0,z0,x1,...). omega is ignored.
func RoesslerField(dst, y []float64, _ float64, a *dynamo.Matrix, _ []float64) {
	for i := 0; i < a.Rows; i++ {
		row := a.Row(i)
		sum := 0.0
		for j, w := range row {
			sum += w * math.Sin(y[3*j])
		}
		x, yc, z := y[3*i], y[3*i+1], y[3*i+2]
		dst[3*i] = -yc - z + sum
		dst[3*i+1] = x + roesslerA*yc
		dst[3*i+2] = roesslerB + z*(x-roesslerC)
	}
}
