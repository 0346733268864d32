package cloth

import "math"

// Factors scales the spacing-derived rest lengths. Callers pass effective
// values, so 1.0 leaves a rest length at its lattice distance.
type Factors struct {
	Stretch float64
	Shear   float64
	Bending float64
}

type pairKey struct{ a, b int }

type constraintSet struct {
	list []Constraint
	seen map[pairKey]struct{}
}

// add appends the constraint unless the unordered pair already exists.
// A second constraint on the same pair would double its correction.
func (s *constraintSet) add(i, j int, rest float64, cat Category) {
	if i > j {
		i, j = j, i
	}
	k := pairKey{i, j}
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.list = append(s.list, Constraint{A: i, B: j, RestLength: rest, Category: cat})
}

// BuildConstraints derives a fresh constraint list from the mesh. The
// returned order is the relaxation order and must not be shuffled.
func BuildConstraints(m *Mesh, f Factors) []Constraint {
	l := &m.Lattice
	s := &constraintSet{seen: make(map[pairKey]struct{})}
	sp := m.Spacing

	for y := 0; y < l.Rows; y++ {
		for x := 0; x < l.Cols; x++ {
			idx := l.Grid[y][x]
			if x < l.Cols-1 {
				s.add(idx, l.Grid[y][x+1], sp*f.Stretch, Structural)
			}
			if y < l.Rows-1 {
				s.add(idx, l.Grid[y+1][x], sp*f.Stretch, Structural)
			}
		}
	}

	for y := 0; y < l.Rows; y++ {
		for x := 0; x < l.Cols-2; x++ {
			s.add(l.Grid[y][x], l.Grid[y][x+2], 2*sp*f.Bending, Bending)
		}
	}
	for y := 0; y < l.Rows-2; y++ {
		for x := 0; x < l.Cols; x++ {
			s.add(l.Grid[y][x], l.Grid[y+2][x], 2*sp*f.Bending, Bending)
		}
	}

	diag := math.Sqrt2 * sp * f.Shear
	for y := 0; y < l.Rows-1; y++ {
		for x := 0; x < l.Cols-1; x++ {
			s.add(l.Grid[y][x], l.Grid[y+1][x+1], diag, Shear)
			s.add(l.Grid[y][x+1], l.Grid[y+1][x], diag, Shear)
		}
	}

	for y := 0; y < l.Rows-1; y++ {
		for x := 0; x < l.Cols-1; x++ {
			a, b := l.Grid[y][x], l.Grid[y][x+1]
			c, d := l.Grid[y+1][x], l.Grid[y+1][x+1]
			e, f := l.Horizontal[y][x], l.Horizontal[y+1][x]
			g, h := l.Vertical[y][x], l.Vertical[y][x+1]
			i := l.Centers[y][x]
			for _, t := range [8][3]int{
				{a, e, i}, {a, g, i},
				{b, e, i}, {b, h, i},
				{c, g, i}, {c, f, i},
				{d, h, i}, {d, f, i},
			} {
				s.addTriangle(m, t[0], t[1], t[2])
			}
		}
	}

	return s.list
}

// addTriangle links three particles at their current distances.
func (s *constraintSet) addTriangle(m *Mesh, i1, i2, i3 int) {
	s.add(i1, i2, m.pos(i1).Dist(m.pos(i2)), Structural)
	s.add(i2, i3, m.pos(i2).Dist(m.pos(i3)), Structural)
	s.add(i3, i1, m.pos(i3).Dist(m.pos(i1)), Structural)
}
