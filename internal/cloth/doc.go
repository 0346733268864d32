// Package cloth implements a mass-spring cloth simulator.
//
// A cloth is a lattice of particles joined by distance constraints. Each call
// to [Simulation.Step] runs three phases in a fixed order:
//
//   - [Integrate]: Verlet integration with damping, gravity and wind
//   - [Relax]: Gauss-Seidel constraint relaxation, a fixed number of passes
//   - [ResolveCollisions]: self collision, then the drape primitive, then the floor
//
// Topology and constraints are only rebuilt on reconfiguration. Tunable
// quantities are held as [Param] values; a disabled parameter falls back to
// its neutral baseline so the integrator never branches on toggles.
//
// # Coordinates
//
// +Y points down, matching screen space. Gravity adds to Y, and the "top" of
// a sphere or cylinder is its minimum Y.
//
// # Example
//
//	s, err := cloth.New(cloth.DefaultSettings())
//	if err != nil {
//	    return err
//	}
//	_ = s.SetParameter(cloth.ParamGravity, 0.4, true)
//	for i := 0; i < 100; i++ {
//	    s.Step()
//	}
//
// # Thread Safety
//
// A Simulation is NOT safe for concurrent use. Independent simulations may
// be stepped from different goroutines.
package cloth
