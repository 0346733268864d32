package cloth

import "math"

// PlaneShiftX offsets a flat cloth to the left of the origin.
const PlaneShiftX = -40.0

func validateGrid(rows, cols int, spacing float64) error {
	if rows < 2 {
		return &ConfigError{Field: "rows", Value: rows, Wrapped: ErrGridTooSmall}
	}
	if cols < 2 {
		return &ConfigError{Field: "cols", Value: cols, Wrapped: ErrGridTooSmall}
	}
	if spacing <= 0 || math.IsNaN(spacing) || math.IsInf(spacing, 0) {
		return &ConfigError{Field: "spacing", Value: spacing, Wrapped: ErrInvalidSpacing}
	}
	return nil
}

// BuildTopology lays out rows x cols lattice particles for the placement,
// then appends edge midpoints and cell centres and records each cell's
// rest area.
func BuildTopology(rows, cols int, spacing float64, placement Placement) (*Mesh, error) {
	if err := validateGrid(rows, cols, spacing); err != nil {
		return nil, err
	}

	m := &Mesh{
		Spacing: spacing,
		Lattice: Lattice{Rows: rows, Cols: cols},
	}
	// lattice + horizontal + vertical + centres
	n := rows*cols + rows*(cols-1) + (rows-1)*cols + (rows-1)*(cols-1)
	m.Particles = make([]Particle, 0, n)

	width := float64(cols-1) * spacing
	height := float64(rows-1) * spacing

	switch p := placement.(type) {
	case DrapedPlacement:
		m.placeDraped(-width/2, p.Primitive.RestY(), -height/2)
		anchor := p.Primitive.Anchor()
		c := m.Lattice.Center()
		m.Particles[c] = newParticle(anchor, true)
	case PlanePlacement:
		m.placePlane(-width/2+PlaneShiftX, -height/2, 0, p.Pinning)
	default:
		m.placePlane(-width/2+PlaneShiftX, -height/2, 0, PinTop)
	}

	m.subdivide()
	return m, nil
}

func (m *Mesh) add(p Vec3, pinned bool) int {
	m.Particles = append(m.Particles, newParticle(p, pinned))
	return len(m.Particles) - 1
}

func (m *Mesh) placePlane(startX, startY, z float64, pin Pinning) {
	l := &m.Lattice
	l.Grid = make([][]int, l.Rows)
	for y := 0; y < l.Rows; y++ {
		l.Grid[y] = make([]int, l.Cols)
		for x := 0; x < l.Cols; x++ {
			pos := Vec3{startX + float64(x)*m.Spacing, startY + float64(y)*m.Spacing, z}
			l.Grid[y][x] = m.add(pos, isPinned(pin, x, y, l.Cols, l.Rows))
		}
	}
}

func isPinned(pin Pinning, x, y, cols, rows int) bool {
	switch pin {
	case PinCorners:
		return (x == 0 || x == cols-1) && (y == 0 || y == rows-1)
	default:
		return y == 0
	}
}

// placeDraped lays the lattice flat in the XZ plane; rows advance along Z.
func (m *Mesh) placeDraped(startX, y, startZ float64) {
	l := &m.Lattice
	l.Grid = make([][]int, l.Rows)
	for r := 0; r < l.Rows; r++ {
		l.Grid[r] = make([]int, l.Cols)
		for c := 0; c < l.Cols; c++ {
			pos := Vec3{startX + float64(c)*m.Spacing, y, startZ + float64(r)*m.Spacing}
			l.Grid[r][c] = m.add(pos, false)
		}
	}
}

func (m *Mesh) pos(i int) Vec3 { return m.Particles[i].Pos }

func (m *Mesh) subdivide() {
	l := &m.Lattice

	l.Horizontal = make([][]int, l.Rows)
	for y := 0; y < l.Rows; y++ {
		l.Horizontal[y] = make([]int, l.Cols-1)
		for x := 0; x < l.Cols-1; x++ {
			a, b := m.pos(l.Grid[y][x]), m.pos(l.Grid[y][x+1])
			l.Horizontal[y][x] = m.add(a.Add(b).Scale(0.5), false)
		}
	}

	l.Vertical = make([][]int, l.Rows-1)
	for y := 0; y < l.Rows-1; y++ {
		l.Vertical[y] = make([]int, l.Cols)
		for x := 0; x < l.Cols; x++ {
			a, b := m.pos(l.Grid[y][x]), m.pos(l.Grid[y+1][x])
			l.Vertical[y][x] = m.add(a.Add(b).Scale(0.5), false)
		}
	}

	l.Centers = make([][]int, l.Rows-1)
	l.RestArea = make([][]float64, l.Rows-1)
	for y := 0; y < l.Rows-1; y++ {
		l.Centers[y] = make([]int, l.Cols-1)
		l.RestArea[y] = make([]float64, l.Cols-1)
		for x := 0; x < l.Cols-1; x++ {
			a, b, c, d := m.cell(x, y)
			l.Centers[y][x] = m.add(a.Add(b).Add(c).Add(d).Scale(0.25), false)
			l.RestArea[y][x] = quadArea(a, b, c, d)
		}
	}
}

// cell returns the corner positions of cell (x, y): TL, TR, BL, BR.
func (m *Mesh) cell(x, y int) (a, b, c, d Vec3) {
	g := m.Lattice.Grid
	return m.pos(g[y][x]), m.pos(g[y][x+1]), m.pos(g[y+1][x]), m.pos(g[y+1][x+1])
}
