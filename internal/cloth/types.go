package cloth

// Particle is a point mass. Velocity is implicit in Pos - Prev.
type Particle struct {
	Pos    Vec3
	Prev   Vec3
	Pinned bool
	// Driven is set while the particle is held by a drag. The integrator
	// skips driven particles; the solver and colliders still act on them.
	Driven bool
}

func newParticle(p Vec3, pinned bool) Particle {
	return Particle{Pos: p, Prev: p, Pinned: pinned}
}

type Category uint8

const (
	Structural Category = iota
	Shear
	Bending
)

func (c Category) String() string {
	switch c {
	case Structural:
		return "structural"
	case Shear:
		return "shear"
	case Bending:
		return "bending"
	}
	return "unknown"
}

// Constraint keeps two particles at RestLength apart. A < B always.
type Constraint struct {
	A, B       int
	RestLength float64
	Category   Category
}

// Lattice maps logical grid coordinates to particle indices.
type Lattice struct {
	Rows, Cols int
	Grid       [][]int // Rows x Cols
	Horizontal [][]int // Rows x Cols-1, midpoints of Grid[y][x]..Grid[y][x+1]
	Vertical   [][]int // Rows-1 x Cols, midpoints of Grid[y][x]..Grid[y+1][x]
	Centers    [][]int // Rows-1 x Cols-1
	RestArea   [][]float64
}

// Mesh is the particle set plus its lattice bookkeeping. It is replaced
// wholesale on reconfiguration.
type Mesh struct {
	Spacing   float64
	Particles []Particle
	Lattice   Lattice
}

// Center returns the index of the lattice's centre particle.
func (l *Lattice) Center() int {
	return l.Grid[l.Rows/2][l.Cols/2]
}
