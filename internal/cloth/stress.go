package cloth

import "math"

// CellStress compares each cell's current area to its rest area. Values
// are (current-rest)/rest clamped to [-1, 1]: negative is compressed,
// positive is stretched.
func CellStress(m *Mesh) [][]float64 {
	l := &m.Lattice
	out := make([][]float64, l.Rows-1)
	for y := range out {
		out[y] = make([]float64, l.Cols-1)
		for x := range out[y] {
			rest := l.RestArea[y][x]
			if rest == 0 {
				continue
			}
			a, b, c, d := m.cell(x, y)
			v := (quadArea(a, b, c, d) - rest) / rest
			out[y][x] = math.Max(-1, math.Min(1, v))
		}
	}
	return out
}
