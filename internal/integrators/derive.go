package integrators

import "github.com/san-kum/netdyn/internal/dynamo"

// derive writes dyn's derivative at (x, t) into dst, in place when the
// system supports it.
func derive(dyn dynamo.System, dst, x dynamo.State, u dynamo.Control, t float64) {
	if s, ok := dyn.(dynamo.InPlaceSystem); ok {
		s.DeriveInto(dst, x, t)
		return
	}
	copy(dst, dyn.Derive(x, u, t))
}

func grow(buf dynamo.State, n int) dynamo.State {
	if cap(buf) < n {
		return make(dynamo.State, n)
	}
	return buf[:n]
}
